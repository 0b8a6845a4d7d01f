package edgetts

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// The read-aloud endpoint speaks the Azure speech websocket protocol: text
// frames carry CRLF-separated headers, an empty line, then a body; binary
// frames prefix the headers with a 2-byte big-endian header length.
// Reference: https://docs.microsoft.com/en-us/azure/cognitive-services/speech-service/rest-text-to-speech

const outputFormat = "audio-24khz-48kbitrate-mono-mp3"

const speechConfigBody = `{"context":{"synthesis":{"audio":{"metadataoptions":` +
	`{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"true"},` +
	`"outputFormat":"` + outputFormat + `"}}}}`

func speechConfigMessage(ts time.Time) string {
	var b strings.Builder

	b.WriteString("X-Timestamp:" + jsDateString(ts) + "\r\n")
	b.WriteString("Content-Type:application/json; charset=utf-8\r\n")
	b.WriteString("Path:speech.config\r\n")
	b.WriteString("\r\n")
	b.WriteString(speechConfigBody)

	return b.String()
}

func ssmlMessage(requestID string, ts time.Time, ssml string) string {
	var b strings.Builder

	b.WriteString("X-RequestId:" + requestID + "\r\n")
	b.WriteString("Content-Type:application/ssml+xml\r\n")
	b.WriteString("X-Timestamp:" + jsDateString(ts) + "Z\r\n")
	b.WriteString("Path:ssml\r\n")
	b.WriteString("\r\n")
	b.WriteString(ssml)

	return b.String()
}

func buildSSML(text, voice string) string {
	return "<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'>" +
		"<voice name='" + escapeXML(voice) + "'>" +
		"<prosody pitch='+0Hz' rate='+0%' volume='+0%'>" +
		escapeXML(text) +
		"</prosody></voice></speak>"
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"'", "&apos;",
		`"`, "&quot;",
	)

	return r.Replace(s)
}

// jsDateString mimics the timestamp format the browser client sends,
// i.e. javascript's Date.toString() in UTC.
func jsDateString(t time.Time) string {
	return t.UTC().Format("Mon Jan 02 2006 15:04:05") + " GMT+0000 (Coordinated Universal Time)"
}

func parseTextFrame(data []byte) (headers map[string]string, body []byte, err error) {
	idx := bytes.Index(data, []byte("\r\n\r\n"))
	if idx < 0 {
		return nil, nil, fmt.Errorf("no header terminator in text frame")
	}

	headers = map[string]string{}

	for _, line := range strings.Split(string(data[:idx]), "\r\n") {
		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, nil, fmt.Errorf("malformed header line %q", line)
		}

		headers[name] = value
	}

	return headers, data[idx+4:], nil
}

func parseBinaryFrame(data []byte) (headers map[string]string, payload []byte, err error) {
	if len(data) < 2 {
		return nil, nil, fmt.Errorf("binary frame too short: %d bytes", len(data))
	}

	headerLen := int(binary.BigEndian.Uint16(data[:2]))
	if 2+headerLen > len(data) {
		return nil, nil, fmt.Errorf("binary frame header length %d exceeds frame size %d", headerLen, len(data))
	}

	headers = map[string]string{}

	for _, line := range strings.Split(string(data[2:2+headerLen]), "\r\n") {
		if line == "" {
			continue
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, nil, fmt.Errorf("malformed header line %q", line)
		}

		headers[name] = value
	}

	return headers, data[2+headerLen:], nil
}

// windows file time epoch (1601-01-01) offset from the unix epoch, seconds.
const winEpochOffset = 11644473600

// secMSGEC derives the Sec-MS-GEC request header: the uppercase hex sha256 of
// the trusted client token appended to the current windows file time, rounded
// down to five minutes.
func secMSGEC(now time.Time, token string) string {
	ticks := now.Unix() + winEpochOffset
	ticks -= ticks % 300
	ticks *= 10_000_000

	sum := sha256.Sum256([]byte(fmt.Sprintf("%d%s", ticks, token)))

	return strings.ToUpper(fmt.Sprintf("%x", sum))
}
