// internal/app/features/forum/handler.go

// Package forum serves community posts and their comment threads: CRUD
// with author ownership (plus an admin delete override for moderation),
// like toggles, view counting, and the post delete cascade that takes the
// comment thread with it.
//
// All user-supplied text is run through a bluemonday policy before it is
// stored, so stored content is safe to render as-is.
package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campusworks/placementhub/internal/app/policy/ownerpolicy"
	commentstore "github.com/campusworks/placementhub/internal/app/store/comments"
	poststore "github.com/campusworks/placementhub/internal/app/store/forumposts"
	notificationstore "github.com/campusworks/placementhub/internal/app/store/notifications"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/authz"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/app/system/txn"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the forum endpoints. Client is needed alongside DB because
// the post delete cascade tries a transaction first.
type Handler struct {
	DB       *mongo.Database
	Client   *mongo.Client
	Log      *zap.Logger
	sanitize *bluemonday.Policy
}

// NewHandler constructs a Handler bound to the given database and logger.
func NewHandler(db *mongo.Database, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Client:   client,
		Log:      logger,
		sanitize: bluemonday.UGCPolicy(),
	}
}

func postIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postId"))
	if err != nil {
		return primitive.NilObjectID, apierr.New(apierr.NotFound, "Post not found")
	}
	return id, nil
}

func commentIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentId"))
	if err != nil {
		return primitive.NilObjectID, apierr.New(apierr.NotFound, "Comment not found")
	}
	return id, nil
}

// postView is a post decorated with the caller-relative like state.
type postView struct {
	models.ForumPost
	LikeCount int  `json:"like_count"`
	Liked     bool `json:"liked"`
}

func (h *Handler) viewOf(p models.ForumPost, viewer primitive.ObjectID) postView {
	return postView{
		ForumPost: p,
		LikeCount: p.LikeCount(),
		Liked:     !viewer.IsZero() && p.LikedByAccount(viewer),
	}
}

type listResponse struct {
	Success bool       `json:"success"`
	Posts   []postView `json:"posts"`
}

// HandleList processes GET /api/forum/posts, newest first, optionally
// filtered by category.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, _, viewer, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := poststore.New(h.DB).List(ctx, r.URL.Query().Get("category"), primitive.NilObjectID, 200)
	if err != nil {
		respond.Err(w, err)
		return
	}
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, h.viewOf(p, viewer))
	}
	respond.JSON(w, http.StatusOK, listResponse{Success: true, Posts: views})
}

type postResponse struct {
	Success bool     `json:"success"`
	Post    postView `json:"post"`
}

// HandleGet processes GET /api/forum/posts/{postId}. Every read bumps the
// view counter, the author's included.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, _, viewer, _ := authz.UserCtx(r)
	id, err := postIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	posts := poststore.New(h.DB)
	if err := posts.IncViewCount(ctx, id); err != nil {
		if err == poststore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Post not found")
			return
		}
		respond.Err(w, err)
		return
	}
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, postResponse{Success: true, Post: h.viewOf(post, viewer)})
}

type createPostRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// HandleCreate processes POST /api/forum/posts.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if req.Title == "" || req.Body == "" {
		respond.ErrMessage(w, apierr.Validation, "Title and body are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := poststore.New(h.DB).Create(ctx, models.ForumPost{
		AuthorAccountID: res.AccountID,
		AuthorName:      res.Name,
		Title:           h.sanitize.Sanitize(req.Title),
		Body:            h.sanitize.Sanitize(req.Body),
		Category:        req.Category,
		Tags:            req.Tags,
	})
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, postResponse{Success: true, Post: h.viewOf(post, res.AccountID)})
}

type updatePostRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// HandleUpdate processes PUT /api/forum/posts/{postId}. Author only; the
// admin override covers delete, not edit.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := postIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts := poststore.New(h.DB)
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		if err == poststore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Post not found")
			return
		}
		respond.Err(w, err)
		return
	}
	if err := ownerpolicy.Authorize(res.AccountID, res.Role, post, ownerpolicy.ActionUpdate); err != nil {
		respond.Err(w, err)
		return
	}

	updated, err := posts.UpdateContent(ctx, id,
		h.sanitize.Sanitize(req.Title), h.sanitize.Sanitize(req.Body), req.Category, req.Tags)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, postResponse{Success: true, Post: h.viewOf(updated, res.AccountID)})
}

type deleteResponse struct {
	Success bool `json:"success"`
}

// HandleDelete processes DELETE /api/forum/posts/{postId}. Author or
// admin; the comment thread goes with the post, transactionally when the
// server supports it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := postIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	posts := poststore.New(h.DB)
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		if err == poststore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Post not found")
			return
		}
		respond.Err(w, err)
		return
	}
	if err := ownerpolicy.Authorize(res.AccountID, res.Role, post, ownerpolicy.ActionDelete); err != nil {
		respond.Err(w, err)
		return
	}

	cascade := func(ctx context.Context) error {
		if _, err := commentstore.New(h.DB).DeleteByPost(ctx, id); err != nil {
			return err
		}
		_, err := posts.Delete(ctx, id)
		return err
	}

	err = txn.WithTransaction(ctx, h.Client, cascade)
	if err != nil && txn.IsNotSupported(err) {
		h.Log.Warn("transactions unavailable, deleting post sequentially",
			zap.String("post_id", id.Hex()))
		err = cascade(ctx)
	}
	if err != nil {
		respond.Err(w, err)
		return
	}
	h.Log.Info("post deleted",
		zap.String("post_id", id.Hex()),
		zap.String("by", res.AccountID.Hex()),
		zap.String("role", res.Role))
	respond.JSON(w, http.StatusOK, deleteResponse{Success: true})
}

type likeResponse struct {
	Success   bool `json:"success"`
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// HandleToggleLike processes POST /api/forum/posts/{postId}/like. Liking
// someone else's post notifies the author; a self-like does not.
func (h *Handler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := postIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, liked, err := poststore.New(h.DB).ToggleLike(ctx, id, res.AccountID)
	if err != nil {
		if err == poststore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Post not found")
			return
		}
		respond.Err(w, err)
		return
	}

	if liked && post.AuthorAccountID != res.AccountID {
		if _, err := notificationstore.New(h.DB).Create(ctx, models.Notification{
			RecipientAccountID: post.AuthorAccountID,
			Message:            fmt.Sprintf("%s liked your post \"%s\"", res.Name, post.Title),
			Kind:               models.NotifyPostLiked,
			Link:               "/forum/posts/" + post.ID.Hex(),
		}); err != nil {
			h.Log.Warn("like notification failed", zap.Error(err))
		}
	}
	respond.JSON(w, http.StatusOK, likeResponse{Success: true, Liked: liked, LikeCount: post.LikeCount()})
}
