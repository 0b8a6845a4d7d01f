package edgetts

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultWSEndpoint   = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	defaultVoiceListURL = "https://speech.platform.bing.com/consumer/speech/synthesize/readaloud/voices/list"

	trustedClientToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"

	chromiumVersion = "130.0.2849.68"
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/130.0.0.0 Safari/537.36 Edg/" + chromiumVersion
	wsOrigin = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"
)

type Config struct {
	WSEndpoint   string `yaml:"ws_endpoint"`
	VoiceListURL string `yaml:"voice_list_url"`
	Token        string `yaml:"token"`
}

var _ HTTPClient = http.DefaultClient

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Client talks to the Microsoft Edge read-aloud service, the same backend the
// browser's "read aloud" feature uses. One websocket connection per
// synthesis; no state is shared between calls.
type Client struct {
	cfg        *Config
	httpClient HTTPClient
	dialer     Dialer

	now func() time.Time
}

func New(httpClient HTTPClient, cfg *Config) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: httpClient,
		dialer:     websocket.DefaultDialer,

		now: time.Now,
	}

	if c.cfg.WSEndpoint == "" {
		c.cfg.WSEndpoint = defaultWSEndpoint
	}
	if c.cfg.VoiceListURL == "" {
		c.cfg.VoiceListURL = defaultVoiceListURL
	}
	if c.cfg.Token == "" {
		c.cfg.Token = trustedClientToken
	}

	return c
}

// Synthesize converts text to mp3 audio using the given voice. The caller's
// ctx is the only cancellation mechanism: no timeout is applied here.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	now := c.now()

	wsURL := fmt.Sprintf("%s?TrustedClientToken=%s&Sec-MS-GEC=%s&Sec-MS-GEC-Version=1-%s&ConnectionId=%s",
		c.cfg.WSEndpoint, c.cfg.Token, secMSGEC(now, c.cfg.Token), chromiumVersion, connectionID())

	header := http.Header{}
	header.Set("Pragma", "no-cache")
	header.Set("Cache-Control", "no-cache")
	header.Set("Origin", wsOrigin)
	header.Set("User-Agent", userAgent)

	conn, resp, err := c.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to dial tts endpoint (status %d): %w", resp.StatusCode, err)
		}

		return nil, fmt.Errorf("failed to dial tts endpoint: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(speechConfigMessage(now))); err != nil {
		return nil, fmt.Errorf("failed to send speech config: %w", err)
	}

	ssml := buildSSML(text, voice)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMessage(connectionID(), now, ssml))); err != nil {
		return nil, fmt.Errorf("failed to send ssml: %w", err)
	}

	// the dialer honors ctx only during the handshake, so reads are unbound
	// unless we propagate cancellation ourselves
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	var audio []byte

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			return nil, fmt.Errorf("failed to read from tts endpoint: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			headers, _, err := parseTextFrame(data)
			if err != nil {
				return nil, fmt.Errorf("failed to parse text frame: %w", err)
			}

			if headers["Path"] == "turn.end" {
				if len(audio) == 0 {
					return nil, fmt.Errorf("no audio received before turn.end")
				}

				return audio, nil
			}
		case websocket.BinaryMessage:
			headers, payload, err := parseBinaryFrame(data)
			if err != nil {
				return nil, fmt.Errorf("failed to parse binary frame: %w", err)
			}

			if headers["Path"] == "audio" {
				audio = append(audio, payload...)
			}
		}
	}
}

// Save synthesizes text and writes the resulting audio to path.
func (c *Client) Save(ctx context.Context, text, voice, path string) error {
	audio, err := c.Synthesize(ctx, text, voice)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return nil
}

// the service wants uuids without dashes
func connectionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
