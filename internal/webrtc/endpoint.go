// Package webrtc builds pion peers that carry pointer frames over a data channel.
package webrtc

import (
	"fmt"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
)

// ChannelLabel names the data channel that carries frames.
const ChannelLabel = "padlink"

// Endpoint creates peer connections sharing one configured API.
type Endpoint struct {
	api    *webrtc.API
	config webrtc.Configuration
}

// NewEndpoint initializes an endpoint with default codecs/interceptors.
func NewEndpoint(iceServers ...string) (*Endpoint, error) {
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
	)

	var config webrtc.Configuration
	if len(iceServers) > 0 {
		config.ICEServers = []webrtc.ICEServer{{URLs: iceServers}}
	}
	return &Endpoint{api: api, config: config}, nil
}

// NewPeer creates a new peer connection.
func (e *Endpoint) NewPeer() (*webrtc.PeerConnection, error) {
	return e.api.NewPeerConnection(e.config)
}

// OpenChannel creates the ordered, reliable frame channel on peer.
func (e *Endpoint) OpenChannel(peer *webrtc.PeerConnection) (*webrtc.DataChannel, error) {
	ordered := true
	return peer.CreateDataChannel(ChannelLabel, &webrtc.DataChannelInit{Ordered: &ordered})
}
