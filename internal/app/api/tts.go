package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tayeblagha/tts-to-react/metrics"
	"github.com/tayeblagha/tts-to-react/pkg/edgetts"
	"github.com/tayeblagha/tts-to-react/pkg/slg"

	"github.com/dchest/uniuri"
)

type TTSRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

func (api *API) TTS(w http.ResponseWriter, r *http.Request) {
	var ttsReq TTSRequest

	if err := json.NewDecoder(r.Body).Decode(&ttsReq); err != nil {
		metrics.TTSRequests.WithLabelValues("400").Inc()
		respondError(w, &apiError{Status: http.StatusBadRequest, Detail: "invalid request body: " + err.Error()})

		return
	}

	path, apiErr := api.synthesizeToFile(r.Context(), &ttsReq)
	if apiErr != nil {
		slg.GetSlog(r.Context()).Error("synthesis failed", "err", apiErr.Detail, "voice", ttsReq.Lang)

		metrics.TTSRequests.WithLabelValues(strconv.Itoa(apiErr.Status)).Inc()
		respondError(w, apiErr)

		return
	}

	if !api.cfg.KeepFiles {
		defer os.Remove(path)
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		metrics.TTSRequests.WithLabelValues("500").Inc()
		respondError(w, &apiError{Status: http.StatusInternalServerError, Detail: err.Error()})

		return
	}

	metrics.TTSRequests.WithLabelValues("200").Inc()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `attachment; filename="tts.mp3"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	_, _ = w.Write(audio)
}

// synthesizeToFile validates the request and has the speech service write the
// audio to a fresh file under tmp_dir. The caller owns the returned path.
func (api *API) synthesizeToFile(ctx context.Context, ttsReq *TTSRequest) (string, *apiError) {
	if strings.TrimSpace(ttsReq.Text) == "" {
		return "", &apiError{Status: http.StatusBadRequest, Detail: "Text is empty"}
	}

	voice := ttsReq.Lang
	if voice == "" {
		voice = edgetts.DefaultVoice
	}

	tmpDir := api.cfg.TmpDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}

	path := filepath.Join(tmpDir, "tts-"+uniuri.New()+".mp3")

	if api.cfg.SynthesisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.cfg.SynthesisTimeout)
		defer cancel()
	}

	start := time.Now()

	if err := api.synth.Save(ctx, ttsReq.Text, voice, path); err != nil {
		metrics.TTSErrors.WithLabelValues("500").Inc()

		return "", &apiError{Status: http.StatusInternalServerError, Detail: err.Error()}
	}

	metrics.TTSQueryTime.Observe(time.Since(start).Seconds())

	return path, nil
}
