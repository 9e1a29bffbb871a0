package network

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// CheckPort 检查指定主机和端口是否可连接
// 返回值：true表示可连接，false表示不可连接
func CheckPort(host string, port int) bool {
	address := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := net.DialTimeout("tcp", address, 5*time.Second)
	if err != nil {
		return false
	}
	defer conn.Close()

	return true
}

// WaitForPort 等待端口可连接，容器同时启动时后端服务可能尚未就绪
func WaitForPort(ctx context.Context, host string, port int, attempts int, interval time.Duration) error {
	for i := 0; i < attempts; i++ {
		if CheckPort(host, port) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("%s 在 %d 次尝试后仍不可连接", net.JoinHostPort(host, strconv.Itoa(port)), attempts)
}
