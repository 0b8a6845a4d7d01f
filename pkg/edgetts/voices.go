package edgetts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tayeblagha/tts-to-react/pkg/tools"

	"golang.org/x/text/language"
)

// DefaultVoice is used when a request names no voice.
const DefaultVoice = "ar-EG-ShakirNeural"

type Voice struct {
	Name         string `json:"Name"`
	ShortName    string `json:"ShortName"`
	Gender       string `json:"Gender"`
	Locale       string `json:"Locale"`
	FriendlyName string `json:"FriendlyName,omitempty"`
}

// ListVoices fetches the service's voice catalog.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	url := fmt.Sprintf("%s?trustedclienttoken=%s", c.cfg.VoiceListURL, c.cfg.Token)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to get voice list: %w", err)
	}
	defer tools.DrainAndClose(resp.Body)

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode > 299 {
		return nil, fmt.Errorf("status code %d, err - %s", resp.StatusCode, string(respData))
	}

	var voices []Voice
	if err := json.Unmarshal(respData, &voices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal voice list: %w", err)
	}

	return voices, nil
}

// FilterVoices keeps voices whose locale matches the wanted tag. A bare
// language ("ar") matches every region; a full locale ("ar-EG") must match
// the region too.
func FilterVoices(voices []Voice, want language.Tag) []Voice {
	wantBase, _ := want.Base()
	wantRegion, regionConf := want.Region()
	exactRegion := regionConf == language.Exact

	out := make([]Voice, 0, len(voices))

	for _, v := range voices {
		tag, err := language.Parse(v.Locale)
		if err != nil {
			continue
		}

		base, _ := tag.Base()
		if base != wantBase {
			continue
		}

		if exactRegion {
			region, _ := tag.Region()
			if region != wantRegion {
				continue
			}
		}

		out = append(out, v)
	}

	return out
}
