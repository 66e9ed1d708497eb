package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/seligo-ai/seligo/internal/catalog"
	"github.com/seligo-ai/seligo/internal/feed"
	"github.com/seligo-ai/seligo/internal/scan"
	"github.com/seligo-ai/seligo/internal/session"
)

const maxScanUploadSize = 10 << 20 // 10 MB

// App carries the handler dependencies.
type App struct {
	Sessions *session.Service
}

func (app *App) PingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *App) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := app.Sessions.Create()
	if err != nil {
		log.Printf("[API] create session failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": sess.ID})
}

func (app *App) SetInterestsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Interests []string `json:"interests"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	app.Sessions.SetInterests(sess, body.Interests)
	writeJSON(w, http.StatusOK, map[string]interface{}{"interests": sess.Profile.Interests()})
}

func (app *App) StartFeedHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	if err := app.Sessions.StartFeed(r.Context(), sess); err != nil {
		log.Printf("[API] feed start failed: %v", err)
		if errors.Is(err, catalog.ErrFetchFailed) {
			writeError(w, http.StatusBadGateway, "catalog fetch failed")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load feed")
		return
	}
	app.writeFeed(w, sess)
}

func (app *App) FeedHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	app.writeFeed(w, sess)
}

type feedItem struct {
	catalog.Product
	MatchPercent int `json:"matchPercent"`
}

func (app *App) writeFeed(w http.ResponseWriter, sess *session.Session) {
	pool, index := sess.Assembler.Pool()
	items := make([]feedItem, len(pool))
	for i, p := range pool {
		items[i] = feedItem{Product: p, MatchPercent: sess.Profile.MatchPercent(p)}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":     items,
		"index":     index,
		"remaining": sess.Assembler.Remaining(),
		"hasMore":   sess.Assembler.HasMore(),
	})
}

func (app *App) SwipeHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Direction feed.Direction `json:"direction"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	item, err := app.Sessions.Decide(sess, body.Direction)
	if err != nil {
		app.writeDecisionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item":      item,
		"direction": body.Direction,
	})
}

func (app *App) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	var body struct {
		SubAction feed.SubAction `json:"subAction"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	item, err := app.Sessions.Resolve(sess, body.SubAction)
	if err != nil {
		app.writeDecisionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item":      item,
		"subAction": body.SubAction,
	})
}

func (app *App) CancelLikeHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	if err := app.Sessions.CancelLike(sess); err != nil {
		app.writeDecisionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (app *App) UndoHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	rec, err := app.Sessions.Undo(sess)
	if err != nil {
		app.writeDecisionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"undone": rec})
}

func (app *App) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	prof := sess.Profile
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"persona":     prof.Persona(),
		"likedTags":   prof.TopTags(1, 5),
		"avoidedTags": prof.TopTags(-1, 5),
		"topRooms":    prof.TopRooms(4),
		"blockedTags": prof.BlockedTags(),
		"interests":   prof.Interests(),
		"savedCount":  len(sess.Reconciler.Saved()),
		"bagCount":    len(sess.Reconciler.Bagged()),
	})
}

func (app *App) ResetProfileHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	sess.Profile.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (app *App) BlockTagHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Tag string `json:"tag"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Tag == "" {
		writeError(w, http.StatusBadRequest, "tag is required")
		return
	}
	sess.Profile.BlockTag(body.Tag)
	writeJSON(w, http.StatusOK, map[string]interface{}{"blockedTags": sess.Profile.BlockedTags()})
}

func (app *App) UnblockTagHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	tag := chi.URLParam(r, "tag")
	sess.Profile.UnblockTag(tag)
	writeJSON(w, http.StatusOK, map[string]interface{}{"blockedTags": sess.Profile.BlockedTags()})
}

func (app *App) ScanHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxScanUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	text := r.FormValue("text")

	var imageData []byte
	file, _, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		imageData, err = io.ReadAll(io.LimitReader(file, maxScanUploadSize))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read image")
			return
		}
	} else if err != http.ErrMissingFile {
		writeError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	analysis, err := app.Sessions.Scan(r.Context(), sess, imageData, text)
	if err != nil {
		log.Printf("[API] scan failed: %v", err)
		switch {
		case errors.Is(err, scan.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, "scan timed out")
		case errors.Is(err, scan.ErrModelUnavailable):
			writeError(w, http.StatusServiceUnavailable, "vision model unavailable")
		default:
			writeError(w, http.StatusBadRequest, "scan failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analysis": analysis,
		"picks":    app.Sessions.Picks(sess),
	})
}

func (app *App) PicksHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"picks": app.Sessions.Picks(sess)})
}

func (app *App) DismissPickHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	app.Sessions.DismissPick(sess, chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, map[string]interface{}{"picks": app.Sessions.Picks(sess)})
}

func (app *App) RescanHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.session(w, r)
	if !ok {
		return
	}
	app.Sessions.ClearPicks(sess)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (app *App) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, ok := app.Sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (app *App) writeDecisionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feed.ErrNoCurrentItem):
		writeError(w, http.StatusConflict, "no current item")
	case errors.Is(err, feed.ErrLikePending):
		writeError(w, http.StatusConflict, "like awaiting save or bag")
	case errors.Is(err, feed.ErrNoLikePending):
		writeError(w, http.StatusConflict, "no like pending")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
