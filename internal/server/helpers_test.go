package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/internal/classifier"
	"github.com/ledgerlens/ledgerlens/internal/config"
	"github.com/ledgerlens/ledgerlens/internal/engine"
	"github.com/ledgerlens/ledgerlens/internal/fusion"
)

// stubEngine returns a canned result without touching Tesseract.
type stubEngine struct {
	result *engine.Result
	err    error
	gotOpt engine.Options
}

func (s *stubEngine) ExtractText(_ context.Context, _ []byte, opts engine.Options) (*engine.Result, error) {
	s.gotOpt = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubOrchestrator returns a canned merged result.
type stubOrchestrator struct {
	result *fusion.Result
	err    error
}

func (s *stubOrchestrator) Recognize(_ context.Context, _ []byte, _ fusion.Options) (*fusion.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// newTestServer builds a server with stubbed recognition branches and
// a classifier trained on the default set.
func newTestServer(t *testing.T, eng recognizer, orch dualRecognizer) *Server {
	t.Helper()

	cls := classifier.New()
	_, err := cls.Train(nil)
	require.NoError(t, err)

	return &Server{
		engine:       eng,
		orchestrator: orch,
		classifier:   cls,
		cfg:          config.Default(),
	}
}

// okResult is a plausible successful recognition result.
func okResult() *engine.Result {
	return &engine.Result{
		Success:    true,
		Text:       "COFFEE SHOP TOTAL $12.50",
		RawText:    "COFFEE SHOP\nLatte $4.50\nMuffin $8.00\nTOTAL $12.50",
		Confidence: 91.5,
		Language:   "eng",
	}
}

// newMultipartWithImage starts a multipart body whose `image` field
// holds contents; the caller may add fields before closing the writer.
func newMultipartWithImage(t *testing.T, buf *bytes.Buffer, contents []byte) *multipart.Writer {
	t.Helper()

	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("image", "receipt.png")
	require.NoError(t, err)
	_, err = fw.Write(contents)
	require.NoError(t, err)
	return mw
}

// multipartImage builds a multipart body with the given field holding
// file contents under filename.
func multipartImage(t *testing.T, field, filename string, contents []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(contents)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// doRequest routes req through the full mux, middleware included.
func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}
