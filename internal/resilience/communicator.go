package resilience

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Envelope is the request wrapper every worker-to-worker call carries.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"requestId"`
}

// PeerError is a failure the peer reported in its response envelope.
type PeerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *PeerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("peer error %s: %s", e.Code, e.Message)
	}
	return "peer error: " + e.Message
}

type peerResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *PeerError      `json:"error"`
	RequestID string          `json:"requestId"`
}

// Communicator wraps outbound requests to one named peer service. Transport
// failures surface as-is; application failures surface as *PeerError.
type Communicator struct {
	peerName string
	endpoint string
	client   *http.Client
}

func NewCommunicator(peerName, endpoint string, timeout time.Duration) *Communicator {
	return &Communicator{
		peerName: peerName,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send posts an envelope of the given type and, on success, unmarshals the
// peer's data field into out (ignored when out is nil).
func (c *Communicator) Send(ctx context.Context, messageType string, payload interface{}, out interface{}) error {
	envelope := Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now(),
		RequestID: uuid.NewString(),
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encoding %s envelope for %s: %w", messageType, c.peerName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request for %s: %w", messageType, c.peerName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", envelope.RequestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var peer peerResponse
	if err := json.NewDecoder(resp.Body).Decode(&peer); err != nil {
		return fmt.Errorf("decoding %s response from %s: %w", messageType, c.peerName, err)
	}

	if !peer.Success {
		if peer.Error != nil {
			log.Warn().
				Str("peer", c.peerName).
				Str("type", messageType).
				Str("code", peer.Error.Code).
				Str("requestID", envelope.RequestID).
				Msg("Peer reported failure")
			return peer.Error
		}
		return &PeerError{Message: fmt.Sprintf("%s rejected %s request", c.peerName, messageType)}
	}

	if out != nil && len(peer.Data) > 0 {
		if err := json.Unmarshal(peer.Data, out); err != nil {
			return fmt.Errorf("decoding %s data from %s: %w", messageType, c.peerName, err)
		}
	}
	return nil
}
