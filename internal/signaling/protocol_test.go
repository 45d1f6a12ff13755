package signaling

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestProtocol_AnswerRoundTrip verifies the receiver's answer decodes on the sender side unchanged.
func TestProtocol_AnswerRoundTrip(t *testing.T) {
	sdp := "v=0\r\nm=application 9 UDP/DTLS/SCTP webrtc-datachannel\r\n"
	data, err := json.Marshal(Message{T: "answer", SDP: sdp})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "candidate") {
		t.Fatalf("expected candidate to be omitted, got %s", data)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != "answer" || msg.SDP != sdp || msg.Candidate != nil {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestProtocol_ICECandidate verifies a trickled candidate keeps its mid and line index.
func TestProtocol_ICECandidate(t *testing.T) {
	var msg Message
	payload := `{"t":"ice","candidate":{"candidate":"candidate:1 1 UDP 2122252543 192.0.2.3 54400 typ host","sdpMid":"0","sdpMLineIndex":0}}`
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != "ice" || msg.Candidate == nil || msg.Candidate.Candidate == "" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Candidate.SDPMid == nil || *msg.Candidate.SDPMid != "0" {
		t.Fatalf("expected sdpMid 0, got %+v", msg.Candidate)
	}
	if msg.Candidate.SDPMLineIndex == nil || *msg.Candidate.SDPMLineIndex != 0 {
		t.Fatalf("expected sdpMLineIndex 0, got %+v", msg.Candidate)
	}
}

// TestProtocol_UnknownTypeIgnored verifies the server skips messages it does not handle.
func TestProtocol_UnknownTypeIgnored(t *testing.T) {
	s := NewServer(newTestEndpoint(t), SenderReplace, nil)
	if err := s.handleMessage(nil, nil, Message{T: "bye"}); err != nil {
		t.Fatalf("expected unknown message to be ignored, got %v", err)
	}
}
