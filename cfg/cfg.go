package cfg

import (
	"github.com/tayeblagha/tts-to-react/internal/app/api"
	"github.com/tayeblagha/tts-to-react/pkg/edgetts"
)

type Config struct {
	Api api.Config `yaml:"api"`

	EdgeTTS edgetts.Config `yaml:"edge_tts"`
}
