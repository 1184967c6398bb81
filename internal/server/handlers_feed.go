package server

import (
	"net/http"
	"strconv"
	"time"

	"anisbee/internal/db"

	"gorm.io/gorm/clause"
)

type postRequest struct {
	Body string `json:"body"`
}

type commentRequest struct {
	Body string `json:"body"`
}

type reactionRequest struct {
	Kind string `json:"kind"`
}

const maxFeedPerPage = 50

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r, s.cfg.FeedPageSize, maxFeedPerPage)
	if s.db == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"posts":      []any{},
			"pagination": paginationMeta(page, perPage, 0),
		})
		return
	}

	var total int64
	if err := s.db.Model(&db.Post{}).Count(&total).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	var posts []db.Post
	if err := s.db.Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	entries := make([]map[string]any, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, s.postPayload(post, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"posts":      entries,
		"pagination": paginationMeta(page, perPage, total),
	})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.currentUser(w, r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "claim an anonymous name first")
		return
	}
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "feed is unavailable")
		return
	}
	var req postRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	body, err := validatePostBody(req.Body)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "body", err.Error())
		return
	}
	post := db.Post{UserID: user.UserID, Body: body}
	if err := s.db.Create(&post).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	writeJSON(w, http.StatusCreated, s.postPayload(post, false))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	if s.db == nil {
		http.NotFound(w, r)
		return
	}
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.postPayload(post, true))
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.currentUser(w, r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "claim an anonymous name first")
		return
	}
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "feed is unavailable")
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	var req commentRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	body, err := validateCommentBody(req.Body)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "body", err.Error())
		return
	}
	comment := db.Comment{PostID: post.ID, UserID: user.UserID, Body: body}
	if err := s.db.Create(&comment).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"anon_name":  user.AnonName,
		"body":       comment.Body,
		"created_at": comment.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// handleSetReaction upserts on (post, user): reacting twice swaps the
// kind, mirroring the lunch vote's change-of-mind semantics.
func (s *Server) handleSetReaction(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.currentUser(w, r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "claim an anonymous name first")
		return
	}
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "feed is unavailable")
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	var req reactionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := validateReactionKind(req.Kind)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "kind", err.Error())
		return
	}
	reaction := db.Reaction{PostID: post.ID, UserID: user.UserID, Kind: kind}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
	}).Create(&reaction).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record reaction")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"post_id": post.ID,
		"kind":    kind,
	})
}

func (s *Server) postPayload(post db.Post, withComments bool) map[string]any {
	payload := map[string]any{
		"id":         post.ID,
		"anon_name":  s.anonNameFor(post.UserID),
		"body":       post.Body,
		"created_at": post.CreatedAt.UTC().Format(time.RFC3339),
	}
	if s.db != nil {
		var commentCount int64
		_ = s.db.Model(&db.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error
		payload["comment_count"] = commentCount

		var reactionRows []struct {
			Kind  string
			Total int
		}
		_ = s.db.Model(&db.Reaction{}).
			Select("kind, COUNT(*) AS total").
			Where("post_id = ?", post.ID).
			Group("kind").
			Scan(&reactionRows).Error
		reactions := make(map[string]int, len(reactionRows))
		for _, row := range reactionRows {
			reactions[row.Kind] = row.Total
		}
		payload["reactions"] = reactions
	}
	if withComments && s.db != nil {
		var comments []db.Comment
		_ = s.db.Where("post_id = ?", post.ID).Order("created_at ASC, id ASC").Find(&comments).Error
		entries := make([]map[string]any, 0, len(comments))
		for _, comment := range comments {
			entries = append(entries, map[string]any{
				"id":         comment.ID,
				"anon_name":  s.anonNameFor(comment.UserID),
				"body":       comment.Body,
				"created_at": comment.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		payload["comments"] = entries
	}
	return payload
}

func (s *Server) anonNameFor(userID uint) string {
	if s.db == nil {
		return ""
	}
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return ""
	}
	return user.AnonName
}
