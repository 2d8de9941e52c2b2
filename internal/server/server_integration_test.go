package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/spell"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/testdata"
)

func TestAPI_TypingWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV")
	}

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New error = %v", err)
	}
	defer st.Close()

	if err := st.Dictionary().Add("AT", "CAT", "HAT"); err != nil {
		t.Fatalf("seed dictionary: %v", err)
	}

	srv, _ := newTestServer(t, st, spell.NewChecker(st))
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	frame := testdata.HandFrame()
	defer frame.Close()
	jpeg, err := testdata.EncodeJPEG(frame)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	payload, _ := json.Marshal(map[string]string{
		"image": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg),
	})

	var last struct {
		Prediction string  `json:"prediction"`
		Confidence float64 `json:"confidence"`
		Word       string  `json:"word"`
	}

	// 1. Feed the same frame until the symbol locks
	for i := 0; i < session.LockThreshold; i++ {
		resp, err := client.Post(ts.URL+"/predict", "application/json", bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("POST /predict error = %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("POST /predict status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		json.NewDecoder(resp.Body).Decode(&last)
		resp.Body.Close()
	}

	if last.Prediction != "A" {
		t.Errorf("prediction = %q, want A", last.Prediction)
	}
	if last.Confidence != 100 {
		t.Errorf("confidence = %f, want 100", last.Confidence)
	}
	if last.Word != "A" {
		t.Errorf("word = %q, want A", last.Word)
	}

	// 2. Suggestions for the committed word
	resp, err := client.Get(ts.URL + "/api/suggestions?word=" + last.Word)
	if err != nil {
		t.Fatalf("GET /api/suggestions error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/suggestions status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var suggested struct {
		Suggestions []struct {
			Word string `json:"word"`
		} `json:"suggestions"`
	}
	json.NewDecoder(resp.Body).Decode(&suggested)
	resp.Body.Close()

	if len(suggested.Suggestions) == 0 {
		t.Error("expected suggestions for a one-letter word near AT")
	}

	// 3. Reset clears the word
	resp, err = client.Post(ts.URL+"/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /reset error = %v", err)
	}
	resp.Body.Close()

	resp, err = client.Post(ts.URL+"/predict", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /predict after reset error = %v", err)
	}
	json.NewDecoder(resp.Body).Decode(&last)
	resp.Body.Close()

	if last.Word != "" {
		t.Errorf("word after reset = %q, want empty", last.Word)
	}
	if last.Confidence != 2 {
		t.Errorf("confidence after reset = %f, want 2", last.Confidence)
	}
}

func TestAPI_SessionsAreIsolated(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV")
	}

	srv, _ := newTestServer(t, nil, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// Create a dedicated session
	resp, err := client.Post(ts.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/sessions error = %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	frame := testdata.HandFrame()
	defer frame.Close()
	jpeg, err := testdata.EncodeJPEG(frame)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	image := base64.StdEncoding.EncodeToString(jpeg)

	// Lock a letter in the dedicated session only
	payload := []byte(fmt.Sprintf(`{"image": %q, "session_id": %q}`, image, created.ID))
	for i := 0; i < session.LockThreshold; i++ {
		resp, err := client.Post(ts.URL+"/predict", "application/json", bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("POST /predict error = %v", err)
		}
		resp.Body.Close()
	}

	// The dedicated session holds the word
	resp, _ = client.Get(ts.URL + "/api/sessions/" + created.ID)
	var dedicated struct {
		Word string `json:"word"`
	}
	json.NewDecoder(resp.Body).Decode(&dedicated)
	resp.Body.Close()

	if dedicated.Word != "A" {
		t.Errorf("dedicated session word = %q, want A", dedicated.Word)
	}

	// The default session is untouched
	resp, _ = client.Get(ts.URL + "/api/sessions/" + session.DefaultID)
	var def struct {
		Word string `json:"word"`
	}
	json.NewDecoder(resp.Body).Decode(&def)
	resp.Body.Close()

	if def.Word != "" {
		t.Errorf("default session word = %q, want empty", def.Word)
	}
}
