package edgetts_test

import (
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tayeblagha/tts-to-react/pkg/edgetts"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func binaryAudioFrame(payload []byte) []byte {
	header := "X-RequestId:test\r\nContent-Type:audio/mpeg\r\nPath:audio\r\n"

	frame := make([]byte, 2, 2+len(header)+len(payload))
	binary.BigEndian.PutUint16(frame, uint16(len(header)))
	frame = append(frame, header...)

	return append(frame, payload...)
}

// ttsServer upgrades to websocket, consumes the speech.config and ssml
// messages and plays back the given frames.
func ttsServer(t *testing.T, gotSSML *string, audioChunks ...[]byte) *httptest.Server {
	t.Helper()

	// the client sends a browser-extension Origin, which the default
	// origin check would reject
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		_, config, err := conn.ReadMessage()
		require.NoError(t, err)
		require.Contains(t, string(config), "Path:speech.config")

		_, ssml, err := conn.ReadMessage()
		require.NoError(t, err)
		require.Contains(t, string(ssml), "Path:ssml")

		if gotSSML != nil {
			*gotSSML = string(ssml)
		}

		require.NoError(t, conn.WriteMessage(websocket.TextMessage,
			[]byte("X-RequestId:test\r\nPath:turn.start\r\n\r\n")))

		for _, chunk := range audioChunks {
			require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, binaryAudioFrame(chunk)))
		}

		require.NoError(t, conn.WriteMessage(websocket.TextMessage,
			[]byte("X-RequestId:test\r\nPath:turn.end\r\n\r\n{}")))
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSynthesize(t *testing.T) {
	assert := require.New(t)

	var ssml string
	srv := ttsServer(t, &ssml, []byte("MP3"), []byte("DATA"))
	defer srv.Close()

	client := edgetts.New(http.DefaultClient, &edgetts.Config{WSEndpoint: wsURL(srv)})

	audio, err := client.Synthesize(context.Background(), "Hello", "en-US-GuyNeural")
	assert.NoError(err)
	assert.Equal([]byte("MP3DATA"), audio)

	assert.Contains(ssml, "<voice name='en-US-GuyNeural'>")
	assert.Contains(ssml, ">Hello</prosody>")
}

func TestSynthesizeNoAudio(t *testing.T) {
	assert := require.New(t)

	srv := ttsServer(t, nil)
	defer srv.Close()

	client := edgetts.New(http.DefaultClient, &edgetts.Config{WSEndpoint: wsURL(srv)})

	_, err := client.Synthesize(context.Background(), "Hello", "en-US-GuyNeural")
	assert.Error(err)
	assert.Contains(err.Error(), "no audio")
}

func TestSynthesizeDialFailure(t *testing.T) {
	assert := require.New(t)

	client := edgetts.New(http.DefaultClient, &edgetts.Config{WSEndpoint: "ws://127.0.0.1:1"})

	_, err := client.Synthesize(context.Background(), "Hello", "en-US-GuyNeural")
	assert.Error(err)
}

func TestSynthesizeCancelled(t *testing.T) {
	assert := require.New(t)

	// the client sends a browser-extension Origin, which the default
	// origin check would reject
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	// server that never answers the ssml message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		time.Sleep(5 * time.Second)
	}))
	defer srv.Close()

	client := edgetts.New(http.DefaultClient, &edgetts.Config{WSEndpoint: wsURL(srv)})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Synthesize(ctx, "Hello", "en-US-GuyNeural")
	assert.ErrorIs(err, context.DeadlineExceeded)
}

func TestSave(t *testing.T) {
	assert := require.New(t)

	srv := ttsServer(t, nil, []byte("XYZ"))
	defer srv.Close()

	client := edgetts.New(http.DefaultClient, &edgetts.Config{WSEndpoint: wsURL(srv)})

	path := filepath.Join(t.TempDir(), "out.mp3")
	assert.NoError(client.Save(context.Background(), "Hello", "en-US-GuyNeural", path))

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal([]byte("XYZ"), data)
}
