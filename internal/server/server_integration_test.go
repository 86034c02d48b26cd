package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/lsfstream/internal/capture"
	"github.com/ayusman/lsfstream/internal/detector"
	"github.com/ayusman/lsfstream/internal/gesture"
	"github.com/ayusman/lsfstream/internal/session"
	"github.com/ayusman/lsfstream/internal/store"
)

// newSessionHandler serves sessions whose estimator always sees hand.
func newSessionHandler(t *testing.T, hand detector.HandLandmarks) *session.Handler {
	t.Helper()

	pool, err := detector.NewPool(1, func() (detector.Detector, error) {
		mock := detector.NewMockDetector()
		mock.SetHands([]detector.HandLandmarks{hand})
		return mock, nil
	}, nil)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	table, err := gesture.NewPhraseTable(gesture.MatchTokens, gesture.BuiltinPhrases())
	if err != nil {
		t.Fatalf("NewPhraseTable() error = %v", err)
	}
	return session.NewHandler(session.Config{}, session.Dependencies{
		Decoder:    capture.ImageDecoder{},
		Estimator:  pool,
		Classifier: gesture.DefaultClassifier(false),
		Phrases:    table,
	})
}

func testJPEG(t *testing.T) []byte {
	t.Helper()

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()
	data, err := capture.EncodeJPEG(&frame, 90)
	if err != nil {
		t.Fatalf("EncodeJPEG() error = %v", err)
	}
	return data
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg map[string]any
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func TestAPI_SessionOverRoot(t *testing.T) {
	srv := New(Config{
		Sessions:  newSessionHandler(t, detector.CrossedFingersLandmarks()),
		StaticDir: t.TempDir(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if msg := readMessage(t, conn); msg["type"] != "connection_established" {
		t.Fatalf("first message = %v, want connection_established", msg)
	}

	payload := base64.RawStdEncoding.EncodeToString(testJPEG(t))
	if err := conn.WriteJSON(map[string]string{"type": "image", "data": payload}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	msg := readMessage(t, conn)
	if msg["type"] != "sign_detected" || msg["sign"] != "je t aime" {
		t.Errorf("got %v, want sign_detected \"je t aime\"", msg)
	}

	if err := conn.WriteJSON(map[string]string{"type": "image", "data": "bm90IGFuIGltYWdl"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	msg = readMessage(t, conn)
	if msg["type"] != "error" || !strings.HasPrefix(msg["message"].(string), "Unable to decode image: ") {
		t.Errorf("got %v, want image decode error", msg)
	}

	resp, err := ts.Client().Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions error = %v", err)
	}
	defer resp.Body.Close()
	var sessions struct {
		Count    int `json:"count"`
		Sessions []struct {
			Frames int64 `json:"frames"`
		} `json:"sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&sessions)
	if sessions.Count != 1 || sessions.Sessions[0].Frames != 1 {
		t.Errorf("sessions = %+v, want one session with one frame", sessions)
	}
}

func TestAPI_RejectsUnlistedOrigin(t *testing.T) {
	srv := New(Config{
		Sessions:       newSessionHandler(t, detector.FistLandmarks()),
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), header)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("response = %v, want 403", resp)
	}
}

func TestAPI_PhraseWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := New(Config{Store: s, Classifier: gesture.DefaultClassifier(false)})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create a phrase
	createBody := `{"name": "merci oui", "signs": ["merci", "oui"]}`
	resp, err := client.Post(ts.URL+"/api/phrases", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/phrases error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.Name != "merci oui" {
		t.Errorf("created name = %s, want merci oui", created.Name)
	}

	// 2. Duplicate name
	resp, _ = client.Post(ts.URL+"/api/phrases", "application/json", bytes.NewBufferString(createBody))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate POST status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	resp.Body.Close()

	// 3. List phrases
	resp, _ = client.Get(ts.URL + "/api/phrases")
	var listed struct {
		Phrases []struct {
			ID     string `json:"id"`
			Active bool   `json:"active"`
		} `json:"phrases"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed.Phrases) != 1 || listed.Phrases[0].ID != created.ID || listed.Phrases[0].Active {
		t.Fatalf("phrases = %+v, want the inactive stored phrase", listed.Phrases)
	}

	// 4. Get single phrase
	resp, _ = client.Get(ts.URL + "/api/phrases/" + created.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/phrases/%s status = %d, want %d", created.ID, resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 5. Delete phrase
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/phrases/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 6. Verify deleted
	resp, _ = client.Get(ts.URL + "/api/phrases/" + created.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}
