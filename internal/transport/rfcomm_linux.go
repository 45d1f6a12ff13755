//go:build linux

// Package transport provides the stream dialers and listeners the pointer link runs over.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/frudas24/padlink/internal/link"
	"golang.org/x/sys/unix"
)

// RFCOMMDialer connects to a receiver over Bluetooth RFCOMM.
type RFCOMMDialer struct {
	Channel int
}

// ValidateAddress requires a colon-separated hardware address.
func (d RFCOMMDialer) ValidateAddress(address string) error {
	return link.ValidateHardwareAddress(address)
}

// Dial opens a stream socket to address on the configured channel. The
// connect is non-blocking so ctx can abandon it.
func (d RFCOMMDialer) Dial(ctx context.Context, address string) (io.WriteCloser, error) {
	hw, err := link.ParseHardwareAddress(address)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return nil, fmt.Errorf("rfcomm socket: %w", err)
	}
	sa := &unix.SockaddrRFCOMM{Addr: bdaddr(hw), Channel: uint8(d.channel())}
	if err := unix.Connect(fd, sa); err != nil {
		if !errors.Is(err, unix.EINPROGRESS) {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("rfcomm connect: %w", err)
		}
		if err := waitConnected(ctx, fd); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("rfcomm connect: %w", err)
		}
	}
	return os.NewFile(uintptr(fd), "rfcomm:"+address), nil
}

// channel returns the configured channel or the default one.
func (d RFCOMMDialer) channel() int {
	if d.Channel <= 0 {
		return DefaultRFCOMMChannel
	}
	return d.Channel
}

// waitConnected polls a non-blocking connect until it completes or ctx ends.
func waitConnected(ctx context.Context, fd int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
		n, err := unix.Poll(fds, 100)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if n == 0 {
			continue
		}
		soErr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
		if err != nil {
			return err
		}
		if soErr != 0 {
			return unix.Errno(soErr)
		}
		return nil
	}
}

// bdaddr converts display-order bytes to the kernel's little-endian bdaddr_t.
func bdaddr(hw [6]byte) [6]uint8 {
	var out [6]uint8
	for i := range hw {
		out[i] = hw[len(hw)-1-i]
	}
	return out
}

// RFCOMMListener accepts senders on a local RFCOMM channel.
type RFCOMMListener struct {
	fd     int
	closed atomic.Bool
}

// ListenRFCOMM binds channel on any local adapter.
func ListenRFCOMM(channel int) (*RFCOMMListener, error) {
	if channel <= 0 {
		channel = DefaultRFCOMMChannel
	}
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return nil, fmt.Errorf("rfcomm socket: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrRFCOMM{Channel: uint8(channel)}); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("rfcomm bind channel %d: %w", channel, err)
	}
	if err := unix.Listen(fd, 1); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("rfcomm listen: %w", err)
	}
	return &RFCOMMListener{fd: fd}, nil
}

// Accept waits for the next sender.
func (l *RFCOMMListener) Accept() (io.ReadCloser, error) {
	for {
		nfd, _, err := unix.Accept(l.fd)
		if err == nil {
			return os.NewFile(uintptr(nfd), "rfcomm-client"), nil
		}
		if l.closed.Load() {
			return nil, ErrListenerClosed
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return nil, fmt.Errorf("rfcomm accept: %w", err)
	}
}

// Close unblocks Accept and releases the socket.
func (l *RFCOMMListener) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	_ = unix.Shutdown(l.fd, unix.SHUT_RDWR)
	return unix.Close(l.fd)
}
