package network

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func TestCheckPort(t *testing.T) {
	host, port := listen(t)
	assert.True(t, CheckPort(host, port))
}

func TestWaitForPortGivesUp(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	err = WaitForPort(context.Background(), "127.0.0.1", port, 2, time.Millisecond)
	assert.Error(t, err)
}

func TestWaitForPortReady(t *testing.T) {
	host, port := listen(t)
	assert.NoError(t, WaitForPort(context.Background(), host, port, 1, time.Millisecond))
}
