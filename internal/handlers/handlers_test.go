package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/services"
	"alfredoptarigan/cv-architect/internal/state"
)

const testAPIKey = "test-key-123"

type fakeCVService struct {
	mu         sync.Mutex
	gate       chan struct{}
	generated  int
	refines    []models.RefineInput
	rateInputs []models.RateInput
}

func (f *fakeCVService) GenerateVariant(_ context.Context, _ string, in services.VariantInput) (models.GeneratedCv, error) {
	return models.GeneratedCv{
		Name:           "Jane Doe",
		HTML:           `<div class="` + string(in.Style) + `">Jane Doe</div>`,
		JobSuggestions: []string{"Engineer"},
		Style:          in.Style,
	}, nil
}

func (f *fakeCVService) GenerateAll(ctx context.Context, apiKey string, in models.GenerateInput) services.GenerationOutcome {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.generated++
	f.mu.Unlock()

	var out services.GenerationOutcome
	for _, style := range in.Styles {
		cv, _ := f.GenerateVariant(ctx, apiKey, services.VariantInput{Style: style})
		out.CVs = append(out.CVs, cv)
	}
	return out
}

func (f *fakeCVService) Refine(_ context.Context, _ string, in models.RefineInput) (models.GeneratedCv, error) {
	f.mu.Lock()
	f.refines = append(f.refines, in)
	f.mu.Unlock()
	return models.GeneratedCv{
		Name:           "Jane Doe",
		HTML:           `<div class="refined">` + in.EditRequest + `</div>`,
		JobSuggestions: []string{"Engineer"},
		Style:          models.StyleModern,
	}, nil
}

func (f *fakeCVService) Rate(_ context.Context, _ string, in models.RateInput) (models.CvRatingReport, error) {
	f.mu.Lock()
	f.rateInputs = append(f.rateInputs, in)
	f.mu.Unlock()
	return models.CvRatingReport{Score: 8, Pros: []string{"Clear"}, Cons: []string{}, OverallFeedback: "Good."}, nil
}

func (f *fakeCVService) Format(_ context.Context, _ string, rawInfo string) (string, error) {
	return "Formatted: " + rawInfo, nil
}

type fakeRenderer struct{}

func (fakeRenderer) RenderPNG(context.Context, string) ([]byte, error) { return []byte("png"), nil }
func (fakeRenderer) RenderPDF(context.Context, string) ([]byte, error) { return []byte("%PDF-1.4 fake"), nil }

type fakePDFParser struct{}

func (fakePDFParser) ExtractText(data []byte) (*services.PDFContent, error) {
	if len(data) == 0 {
		return nil, services.ErrNoPDFText
	}
	return &services.PDFContent{Text: "Jane Doe\nGo developer", PageCount: 1}, nil
}

func (p fakePDFParser) ExtractTextFromFile(string) (*services.PDFContent, error) {
	return nil, errors.New("not used")
}

type testEnv struct {
	app      *fiber.App
	sessions repositories.SessionRepository
	cv       *fakeCVService
}

func newTestEnv(t *testing.T, cv *fakeCVService, renderer services.Renderer) *testEnv {
	t.Helper()
	sessions := repositories.NewSessionRepository()
	worker := services.NewWorker(services.NewJobProcessor(sessions, cv), 2, 10)
	worker.Start(context.Background())
	t.Cleanup(worker.Stop)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := &Handlers{
		Session:   NewSessionHandler(sessions),
		Operation: NewOperationHandler(sessions, worker, renderer != nil),
		Import:    NewImportHandler(sessions, fakePDFParser{}, 1024),
		Edit:      NewEditHandler(sessions),
		Export:    NewExportHandler(sessions, renderer),
	}
	h.Register(app.Group("/api/v1"))

	return &testEnv{app: app, sessions: sessions, cv: cv}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (e *testEnv) newSession(t *testing.T, withKey bool) uuid.UUID {
	t.Helper()
	resp, data := e.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.CreateSessionResponse
	require.NoError(t, json.Unmarshal(data, &created))
	id := uuid.MustParse(created.ID)

	if withKey {
		resp, _ = e.do(t, http.MethodPut, "/api/v1/sessions/"+created.ID+"/credential", models.CredentialRequest{APIKey: testAPIKey})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	return id
}

// seed puts the session in Ready with one Modern CV.
func (e *testEnv) seed(t *testing.T, id uuid.UUID, html string) {
	t.Helper()
	_, err := e.sessions.Apply(id, state.GenerateStarted{Styles: []models.CvStyle{models.StyleModern}})
	require.NoError(t, err)
	_, err = e.sessions.Apply(id, state.GenerateSucceeded{CVs: []models.GeneratedCv{{
		Name: "Jane Doe", HTML: html, JobSuggestions: []string{"Engineer"}, Style: models.StyleModern,
	}}})
	require.NoError(t, err)
}

func (e *testEnv) session(t *testing.T, id uuid.UUID) state.Session {
	t.Helper()
	s, err := e.sessions.FindByID(id)
	require.NoError(t, err)
	return s
}

func sessionPath(id uuid.UUID, suffix string) string {
	return "/api/v1/sessions/" + id.String() + suffix
}

func TestSessionLifecycle_CredentialNeverSerialized(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)
	id := env.newSession(t, true)

	resp, data := env.do(t, http.MethodGet, sessionPath(id, ""), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(data), testAPIKey)

	var view map[string]any
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, true, view["has_credential"])
	assert.Equal(t, "empty", view["phase"])

	resp, data = env.do(t, http.MethodGet, sessionPath(id, "/logs"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(data), testAPIKey)

	resp, _ = env.do(t, http.MethodDelete, sessionPath(id, ""), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, sessionPath(id, ""), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSession_BadAndUnknownIDs(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, sessionPath(uuid.New(), ""), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGenerate_MissingCredentialRejectedWithoutStateChange(t *testing.T) {
	cv := &fakeCVService{}
	env := newTestEnv(t, cv, nil)
	id := env.newSession(t, false)

	resp, data := env.do(t, http.MethodPost, sessionPath(id, "/generate"), models.GenerateRequest{RawInfo: "Jane Doe"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "API Key is required.")

	s := env.session(t, id)
	assert.Equal(t, state.PhaseEmpty, s.Phase)
	assert.Equal(t, 0, cv.generated)
}

func TestGenerate_RunsAsyncAndIsSingleFlight(t *testing.T) {
	cv := &fakeCVService{gate: make(chan struct{})}
	env := newTestEnv(t, cv, nil)
	id := env.newSession(t, true)

	resp, data := env.do(t, http.MethodPost, sessionPath(id, "/generate"), models.GenerateRequest{RawInfo: "Jane Doe, Go"})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var accepted models.JobAcceptedResponse
	require.NoError(t, json.Unmarshal(data, &accepted))
	assert.Equal(t, "generate", accepted.Kind)
	assert.Equal(t, "queued", accepted.Status)

	resp, _ = env.do(t, http.MethodPost, sessionPath(id, "/generate"), models.GenerateRequest{RawInfo: "again"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, sessionPath(id, "/refine"), models.RefineRequest{EditRequest: "bolder"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	close(cv.gate)

	assert.Eventually(t, func() bool {
		return env.session(t, id).Phase == state.PhaseReady
	}, 2*time.Second, 10*time.Millisecond)

	s := env.session(t, id)
	require.Len(t, s.CVs, 3)
	assert.Equal(t, models.StyleModern, s.CVs[0].Style)
	require.NotNil(t, s.ActiveIndex)
	assert.Equal(t, 0, *s.ActiveIndex)
	assert.Equal(t, "Jane Doe, Go", s.RawInfo)
}

func TestGenerate_InvalidInput(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)
	id := env.newSession(t, true)

	resp, _ := env.do(t, http.MethodPost, sessionPath(id, "/generate"), models.GenerateRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, sessionPath(id, "/generate"), models.GenerateRequest{RawInfo: "Jane", Styles: []string{"Brutalist"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, state.PhaseEmpty, env.session(t, id).Phase)
}

func TestRefine_UsesActiveCV(t *testing.T) {
	cv := &fakeCVService{}
	env := newTestEnv(t, cv, nil)
	id := env.newSession(t, true)
	env.seed(t, id, `<div class="original">Jane</div>`)

	resp, _ := env.do(t, http.MethodPost, sessionPath(id, "/refine"), models.RefineRequest{EditRequest: "first"})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		c, _ := env.session(t, id).ActiveCV()
		return c.HTML == `<div class="refined">first</div>`
	}, 2*time.Second, 10*time.Millisecond)

	resp, _ = env.do(t, http.MethodPost, sessionPath(id, "/refine"), models.RefineRequest{EditRequest: "second"})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		c, _ := env.session(t, id).ActiveCV()
		return c.HTML == `<div class="refined">second</div>`
	}, 2*time.Second, 10*time.Millisecond)

	cv.mu.Lock()
	defer cv.mu.Unlock()
	require.Len(t, cv.refines, 2)
	assert.Equal(t, `<div class="original">Jane</div>`, cv.refines[0].CurrentHTML)
	assert.Equal(t, `<div class="refined">first</div>`, cv.refines[1].CurrentHTML)
}

func TestRate_ImageValidationAndReport(t *testing.T) {
	cv := &fakeCVService{}
	env := newTestEnv(t, cv, nil)
	id := env.newSession(t, true)
	env.seed(t, id, `<div>Jane</div>`)

	resp, _ := env.do(t, http.MethodPost, sessionPath(id, "/rate"), models.RateRequest{Image: "data:image/jpeg;base64,AAAA"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, sessionPath(id, "/rate"), models.RateRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "no image and no renderer")
	assert.False(t, env.session(t, id).Rating)

	resp, _ = env.do(t, http.MethodPost, sessionPath(id, "/rate"), models.RateRequest{Image: services.EncodePNGDataURI([]byte("png"))})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return env.session(t, id).Report != nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 8.0, env.session(t, id).Report.Score)

	resp, _ = env.do(t, http.MethodPut, sessionPath(id, "/active"), map[string]int{"index": 0})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, env.session(t, id).Report)
}

func TestFormat_ReplacesRawInfo(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)
	id := env.newSession(t, true)

	resp, _ := env.do(t, http.MethodPost, sessionPath(id, "/format"), models.FormatRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, sessionPath(id, "/raw-info"), models.RawInfoRequest{RawInfo: "jane doe go"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, sessionPath(id, "/format"), models.FormatRequest{})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return env.session(t, id).RawInfo == "Formatted: jane doe go"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRate_EmptyBodyRendersServerSide(t *testing.T) {
	cv := &fakeCVService{}
	env := newTestEnv(t, cv, fakeRenderer{})
	id := env.newSession(t, true)
	env.seed(t, id, `<div>Jane</div>`)

	resp, _ := env.do(t, http.MethodPost, sessionPath(id, "/rate"), nil)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return env.session(t, id).Report != nil
	}, 2*time.Second, 10*time.Millisecond)

	cv.mu.Lock()
	defer cv.mu.Unlock()
	require.Len(t, cv.rateInputs, 1)
	assert.Empty(t, cv.rateInputs[0].Image)
	assert.Equal(t, `<div>Jane</div>`, cv.rateInputs[0].HTML)
}

func TestFormat_EmptyBodyUsesSessionRawInfo(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)
	id := env.newSession(t, true)

	resp, _ := env.do(t, http.MethodPost, sessionPath(id, "/format"), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "nothing to format yet")

	resp, _ = env.do(t, http.MethodPut, sessionPath(id, "/raw-info"), models.RawInfoRequest{RawInfo: "jane doe go"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, sessionPath(id, "/format"), nil)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return env.session(t, id).RawInfo == "Formatted: jane doe go"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEdit_PillRemovalAndCommit(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)
	id := env.newSession(t, true)
	env.seed(t, id, `<div><span class="skill-pill-deletable">Go</span><span class="skill-pill-deletable">Rust</span></div>`)

	resp, data := env.do(t, http.MethodPost, sessionPath(id, "/edit"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"skill_pills":["Go","Rust"]`)

	resp, _ = env.do(t, http.MethodPost, sessionPath(id, "/rate"), models.RateRequest{Image: services.EncodePNGDataURI([]byte("png"))})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, "rating is blocked while editing")

	resp, _ = env.do(t, http.MethodDelete, sessionPath(id, "/edit/skills/0"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, sessionPath(id, "/edit/skills/5"), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Committed CV is untouched until commit.
	c, _ := env.session(t, id).ActiveCV()
	assert.Contains(t, c.HTML, "Go")

	resp, _ = env.do(t, http.MethodPut, sessionPath(id, "/edit"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	s := env.session(t, id)
	assert.False(t, s.Editing)
	c, _ = s.ActiveCV()
	assert.Equal(t, `<div><span class="skill-pill-deletable">Rust</span></div>`, c.HTML)
}

func TestEdit_CommitRejectsMultipleRoots(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)
	id := env.newSession(t, true)
	env.seed(t, id, `<div>Jane</div>`)

	resp, _ := env.do(t, http.MethodPost, sessionPath(id, "/edit"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, sessionPath(id, "/edit"), models.CommitEditRequest{HTML: "<div>a</div><div>b</div>"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.True(t, env.session(t, id).Editing)

	resp, _ = env.do(t, http.MethodDelete, sessionPath(id, "/edit"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	c, _ := env.session(t, id).ActiveCV()
	assert.Equal(t, `<div>Jane</div>`, c.HTML)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, fakeRenderer{})
	id := env.newSession(t, true)

	resp, _ := env.do(t, http.MethodGet, sessionPath(id, "/export"), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	env.seed(t, id, `<div>Jane</div>`)
	resp, data := env.do(t, http.MethodGet, sessionPath(id, "/export"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="CV-Jane-Doe.pdf"`)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestExport_DisabledRenderer(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)
	id := env.newSession(t, true)
	env.seed(t, id, `<div>Jane</div>`)

	resp, _ := env.do(t, http.MethodGet, sessionPath(id, "/export"), nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestImport(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)
	id := env.newSession(t, false)

	upload := func(filename string, content []byte) *http.Response {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("cv", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, sessionPath(id, "/import"), body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, fiber.StatusBadRequest, upload("cv.docx", []byte("x")).StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, upload("big.pdf", bytes.Repeat([]byte("x"), 2048)).StatusCode)

	resp := upload("jane.pdf", []byte("%PDF-1.4"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var imported models.ImportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&imported))
	assert.Equal(t, 1, imported.PageCount)
	assert.Equal(t, "Jane Doe\nGo developer", env.session(t, id).RawInfo)
}

func TestThemesAndHealth(t *testing.T) {
	env := newTestEnv(t, &fakeCVService{}, nil)

	resp, data := env.do(t, http.MethodGet, "/api/v1/themes", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var themes []models.ThemeResponse
	require.NoError(t, json.Unmarshal(data, &themes))
	require.Len(t, themes, 7)
	assert.Equal(t, "Indigo", themes[0].Name)
	assert.Equal(t, "from-cyan-500 to-blue-500", themes[4].Gradient)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
