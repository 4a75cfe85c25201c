package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), Config{Driver: "memory"})
	require.NoError(t, err)
	defer s.Close()
	require.Nil(t, s.PG)
	require.NoError(t, s.DAL.Ping(context.Background()))
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mongo"})
	require.ErrorContains(t, err, "unsupported driver")
}

func TestOpen_PostgresBadDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "postgres", DSN: "postgres://u:p@localhost:notaport/db"})
	require.Error(t, err)
}
