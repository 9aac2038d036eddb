package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"FractalPulse/internal/domain/models"
	drepo "FractalPulse/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a SnapshotStream backed by the analytics engine WebSocket.
type Client struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	horizon        string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new upstream SnapshotStream.
func New(apiKey, websocketURL string, symbols []string, horizon string, reconnectDelay, pingInterval time.Duration) drepo.SnapshotStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		horizon:        horizon,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("upstream connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("upstream: connected")
	return nil
}

// Subscribe subscribes to configured symbols at the configured horizon.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("upstream not connected")
	}
	for _, s := range c.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s, "horizon": c.horizon}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		log.Printf("upstream: subscribed %s@%s", s, c.horizon)
	}
	return nil
}

// wire format of a pushed snapshot frame
type wsSnapshot struct {
	Symbol    string `json:"symbol"`
	Horizon   string `json:"horizon"`
	TS        int64  `json:"ts"` // ms
	Consensus *struct {
		Score      float64 `json:"score"`
		Dir        string  `json:"dir"`
		Dispersion float64 `json:"dispersion"`
	} `json:"consensus"`
	Diagnostics *struct {
		Reliability  float64 `json:"reliability"`
		Entropy      float64 `json:"entropy"`
		QualityScore float64 `json:"qualityScore"`
	} `json:"diagnostics"`
	Phase *struct {
		CurrentPhase string   `json:"currentPhase"`
		Confidence   *float64 `json:"confidence"`
	} `json:"phase"`
	Overlay *struct {
		Matches []struct {
			Phase string `json:"phase"`
		} `json:"matches"`
		Stats *struct {
			AvgMaxDD float64 `json:"avgMaxDD"`
		} `json:"stats"`
	} `json:"overlay"`
	Volatility *struct {
		Regime string `json:"regime"`
	} `json:"volatility"`
}

type wsMessage struct {
	Type string       `json:"type"`
	Data []wsSnapshot `json:"data"`
}

func toBundle(s wsSnapshot) *models.SnapshotBundle {
	b := &models.SnapshotBundle{
		Symbol:    s.Symbol,
		Horizon:   s.Horizon,
		Timestamp: time.Unix(s.TS/1000, (s.TS%1000)*int64(time.Millisecond)),
	}
	if s.Consensus != nil {
		b.Consensus = &models.Consensus{Score: s.Consensus.Score, Dir: models.Direction(s.Consensus.Dir), Dispersion: s.Consensus.Dispersion}
	}
	if s.Diagnostics != nil {
		b.Diagnostics = &models.Diagnostics{Reliability: s.Diagnostics.Reliability, Entropy: s.Diagnostics.Entropy, QualityScore: s.Diagnostics.QualityScore}
	}
	if s.Phase != nil {
		b.Phase = &models.PhaseSnapshot{CurrentPhase: models.Phase(s.Phase.CurrentPhase), Confidence: s.Phase.Confidence}
	}
	if s.Overlay != nil {
		o := &models.Overlay{}
		for _, m := range s.Overlay.Matches {
			o.Matches = append(o.Matches, models.OverlayMatch{Phase: models.Phase(m.Phase)})
		}
		if s.Overlay.Stats != nil {
			o.Stats = &models.OverlayStats{AvgMaxDD: s.Overlay.Stats.AvgMaxDD}
		}
		b.Overlay = o
	}
	if s.Volatility != nil {
		b.Volatility = &models.Volatility{Regime: models.VolRegime(s.Volatility.Regime)}
	}
	return b
}

// Read streams snapshot bundles and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.SnapshotBundle, <-chan error) {
	bundles := make(chan *models.SnapshotBundle, 256)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(bundles)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("upstream conn nil")
					return
				}
				_, raw, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("upstream read: %w", err)
					return
				}
				var m wsMessage
				if err := json.Unmarshal(raw, &m); err != nil {
					// ignore non-snapshot frames
					continue
				}
				if m.Type != "snapshot" {
					continue
				}
				for _, d := range m.Data {
					select {
					case bundles <- toBundle(d):
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return bundles, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
