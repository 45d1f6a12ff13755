package webrtc

import (
	"io"
	"log"
	"sync"

	"github.com/pion/webrtc/v3"
)

// channel is the part of a data channel a Stream writes to.
type channel interface {
	Send(data []byte) error
	Close() error
}

// Stream adapts a data channel to io.ReadWriteCloser. Each Write is sent as
// one message; inbound messages are read back in order.
type Stream struct {
	ch      channel
	pr      *io.PipeReader
	pw      *io.PipeWriter
	closers []io.Closer
	once    sync.Once
}

// NewStream wraps dc. closers are closed along with the channel, typically the
// peer connection and its signaling socket.
func NewStream(dc *webrtc.DataChannel, closers ...io.Closer) *Stream {
	s := newStream(dc, closers...)
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		s.deliver(msg.Data)
	})
	dc.OnClose(func() {
		_ = s.pw.Close()
	})
	return s
}

// newStream builds a stream around any channel.
func newStream(ch channel, closers ...io.Closer) *Stream {
	pr, pw := io.Pipe()
	return &Stream{ch: ch, pr: pr, pw: pw, closers: closers}
}

// Write sends p as a single data channel message.
func (s *Stream) Write(p []byte) (int, error) {
	if err := s.ch.Send(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Read returns inbound message bytes. It reports io.EOF once the channel closes.
func (s *Stream) Read(p []byte) (int, error) {
	return s.pr.Read(p)
}

// Close closes the channel and everything attached to it. It is idempotent.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		_ = s.pw.Close()
		err = s.ch.Close()
		for _, c := range s.closers {
			if c == nil {
				continue
			}
			if cerr := c.Close(); cerr != nil && debugEnabled() {
				log.Printf("debug: webrtc close: %v", cerr)
			}
		}
	})
	return err
}

// deliver hands an inbound message to the reader.
func (s *Stream) deliver(data []byte) {
	if debugEnabled() {
		log.Printf("debug: webrtc message len=%d", len(data))
	}
	if _, err := s.pw.Write(data); err != nil && debugEnabled() {
		log.Printf("debug: webrtc drop message: %v", err)
	}
}
