package api

import (
	"net/http"

	"github.com/tayeblagha/tts-to-react/metrics"
	"github.com/tayeblagha/tts-to-react/pkg/edgetts"

	"golang.org/x/text/language"
)

// Voices lists the voices the speech service offers. An optional ?locale=
// query ("ar", "ar-EG") narrows the list.
func (api *API) Voices(w http.ResponseWriter, r *http.Request) {
	voices, err := api.synth.ListVoices(r.Context())
	if err != nil {
		metrics.VoiceListErrors.Inc()
		respondError(w, &apiError{Status: http.StatusInternalServerError, Detail: err.Error()})

		return
	}

	if locale := r.URL.Query().Get("locale"); locale != "" {
		want, err := language.Parse(locale)
		if err != nil {
			respondError(w, &apiError{Status: http.StatusBadRequest, Detail: "invalid locale: " + err.Error()})

			return
		}

		voices = edgetts.FilterVoices(voices, want)
	}

	respondJSON(w, http.StatusOK, voices)
}
