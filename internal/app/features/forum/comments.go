// internal/app/features/forum/comments.go
package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
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
	"github.com/campusworks/placementhub/internal/domain/models"
)

// commentView is a comment decorated with the caller-relative like state.
type commentView struct {
	models.Comment
	LikeCount int  `json:"like_count"`
	Liked     bool `json:"liked"`
}

func commentViewOf(c models.Comment, viewer primitive.ObjectID) commentView {
	return commentView{
		Comment:   c,
		LikeCount: c.LikeCount(),
		Liked:     !viewer.IsZero() && c.LikedByAccount(viewer),
	}
}

type commentsResponse struct {
	Success  bool          `json:"success"`
	Comments []commentView `json:"comments"`
}

// HandleListComments processes GET /api/forum/posts/{postId}/comments,
// oldest first.
func (h *Handler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	_, _, viewer, _ := authz.UserCtx(r)
	postID, err := postIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := poststore.New(h.DB).GetByID(ctx, postID); err != nil {
		if err == poststore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Post not found")
			return
		}
		respond.Err(w, err)
		return
	}

	comments, err := commentstore.New(h.DB).ListByPost(ctx, postID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentViewOf(c, viewer))
	}
	respond.JSON(w, http.StatusOK, commentsResponse{Success: true, Comments: views})
}

type commentRequest struct {
	Body string `json:"body"`
}

type commentResponse struct {
	Success bool        `json:"success"`
	Comment commentView `json:"comment"`
}

// HandleCreateComment processes POST /api/forum/posts/{postId}/comments.
// Commenting on someone else's post notifies the author.
func (h *Handler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	postID, err := postIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if req.Body == "" {
		respond.ErrMessage(w, apierr.Validation, "Comment body is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts := poststore.New(h.DB)
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		if err == poststore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Post not found")
			return
		}
		respond.Err(w, err)
		return
	}

	comment, err := commentstore.New(h.DB).Create(ctx, models.Comment{
		PostID:          postID,
		AuthorAccountID: res.AccountID,
		AuthorName:      res.Name,
		Body:            h.sanitize.Sanitize(req.Body),
	})
	if err != nil {
		respond.Err(w, err)
		return
	}
	if err := posts.AdjustCommentCount(ctx, postID, 1); err != nil {
		h.Log.Warn("comment count bump failed", zap.Error(err))
	}

	if post.AuthorAccountID != res.AccountID {
		if _, err := notificationstore.New(h.DB).Create(ctx, models.Notification{
			RecipientAccountID: post.AuthorAccountID,
			Message:            fmt.Sprintf("%s commented on your post \"%s\"", res.Name, post.Title),
			Kind:               models.NotifyPostCommented,
			Link:               "/forum/posts/" + post.ID.Hex(),
		}); err != nil {
			h.Log.Warn("comment notification failed", zap.Error(err))
		}
	}
	respond.JSON(w, http.StatusCreated, commentResponse{Success: true, Comment: commentViewOf(comment, res.AccountID)})
}

// HandleUpdateComment processes PUT /api/forum/comments/{commentId}.
// Author only.
func (h *Handler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := commentIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if req.Body == "" {
		respond.ErrMessage(w, apierr.Validation, "Comment body is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	comments := commentstore.New(h.DB)
	comment, err := comments.GetByID(ctx, id)
	if err != nil {
		if err == commentstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Comment not found")
			return
		}
		respond.Err(w, err)
		return
	}
	if err := ownerpolicy.Authorize(res.AccountID, res.Role, comment, ownerpolicy.ActionUpdate); err != nil {
		respond.Err(w, err)
		return
	}

	updated, err := comments.UpdateBody(ctx, id, h.sanitize.Sanitize(req.Body))
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, commentResponse{Success: true, Comment: commentViewOf(updated, res.AccountID)})
}

// HandleDeleteComment processes DELETE /api/forum/comments/{commentId}.
// Author or admin; the parent's comment counter moves back down.
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := commentIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	comments := commentstore.New(h.DB)
	comment, err := comments.GetByID(ctx, id)
	if err != nil {
		if err == commentstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Comment not found")
			return
		}
		respond.Err(w, err)
		return
	}
	if err := ownerpolicy.Authorize(res.AccountID, res.Role, comment, ownerpolicy.ActionDelete); err != nil {
		respond.Err(w, err)
		return
	}

	if _, err := comments.Delete(ctx, id); err != nil {
		respond.Err(w, err)
		return
	}
	if err := poststore.New(h.DB).AdjustCommentCount(ctx, comment.PostID, -1); err != nil {
		h.Log.Warn("comment count decrement failed", zap.Error(err))
	}
	respond.JSON(w, http.StatusOK, deleteResponse{Success: true})
}

// HandleToggleCommentLike processes POST /api/forum/comments/{commentId}/like.
func (h *Handler) HandleToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := commentIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	comment, liked, err := commentstore.New(h.DB).ToggleLike(ctx, id, res.AccountID)
	if err != nil {
		if err == commentstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Comment not found")
			return
		}
		respond.Err(w, err)
		return
	}

	if liked && comment.AuthorAccountID != res.AccountID {
		if _, err := notificationstore.New(h.DB).Create(ctx, models.Notification{
			RecipientAccountID: comment.AuthorAccountID,
			Message:            fmt.Sprintf("%s liked your comment", res.Name),
			Kind:               models.NotifyCommentLiked,
			Link:               "/forum/posts/" + comment.PostID.Hex(),
		}); err != nil {
			h.Log.Warn("comment like notification failed", zap.Error(err))
		}
	}
	respond.JSON(w, http.StatusOK, likeResponse{Success: true, Liked: liked, LikeCount: comment.LikeCount()})
}
