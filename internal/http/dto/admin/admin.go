// Package admin contiene los DTOs de usuarios, roles y permisos.
package admin

import "github.com/dropDatabas3/blogweb/internal/domain/repository"

type PermissionRequest struct {
	Name string `json:"name" validate:"required,authority"`
}

type PermissionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewPermissionResponse(p repository.Permission) PermissionResponse {
	return PermissionResponse{ID: p.ID, Name: p.Name}
}

type RoleRequest struct {
	Name          string  `json:"name" validate:"required,authority"`
	PermissionIDs []int64 `json:"permissionIds"`
}

// RolePermissionsRequest PUT /api/roles/{id}/permissions: reemplaza el set.
type RolePermissionsRequest struct {
	PermissionIDs []int64 `json:"permissionIds"`
}

type RoleResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Permissions []PermissionResponse `json:"permissions"`
}

func NewRoleResponse(r repository.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, NewPermissionResponse(p))
	}
	return RoleResponse{ID: r.ID, Name: r.Name, Permissions: perms}
}

// UserCreateRequest: password y roles obligatorios.
type UserCreateRequest struct {
	Username string  `json:"username" validate:"required,max=100"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,max=72"`
	RoleIDs  []int64 `json:"roleIds" validate:"required,min=1"`
}

// UserUpdateRequest: password vacío conserva el hash; roles vacíos conservan
// los actuales. Los flags nil no se tocan.
type UserUpdateRequest struct {
	Username             string  `json:"username" validate:"required,max=100"`
	Email                string  `json:"email" validate:"omitempty,email"`
	Password             string  `json:"password" validate:"max=72"`
	RoleIDs              []int64 `json:"roleIds"`
	Enabled              *bool   `json:"enabled"`
	AccountNotExpired    *bool   `json:"accountNotExpired"`
	AccountNotLocked     *bool   `json:"accountNotLocked"`
	CredentialNotExpired *bool   `json:"credentialNotExpired"`
}

// UserResponse nunca incluye el hash.
type UserResponse struct {
	ID                   int64          `json:"id"`
	Username             string         `json:"username"`
	Email                string         `json:"email,omitempty"`
	Enabled              bool           `json:"enabled"`
	AccountNotExpired    bool           `json:"accountNotExpired"`
	AccountNotLocked     bool           `json:"accountNotLocked"`
	CredentialNotExpired bool           `json:"credentialNotExpired"`
	Roles                []RoleResponse `json:"roles"`
}

func NewUserResponse(u repository.User) UserResponse {
	roles := make([]RoleResponse, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, NewRoleResponse(r))
	}
	return UserResponse{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Enabled:              u.Enabled,
		AccountNotExpired:    u.AccountNotExpired,
		AccountNotLocked:     u.AccountNotLocked,
		CredentialNotExpired: u.CredentialNotExpired,
		Roles:                roles,
	}
}

// StatusResponse cuerpo de DELETE /api/users/{id}.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
