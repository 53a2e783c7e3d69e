package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	frontend_domain "github.com/pixora-dev/pixora/frontend/internal/domain"
	"github.com/pixora-dev/pixora/frontend/internal/flash"
	"github.com/pixora-dev/pixora/frontend/internal/imaging"
	"github.com/pixora-dev/pixora/shared/errors"
	"github.com/pixora-dev/pixora/shared/logger"
	"github.com/pixora-dev/pixora/shared/validation"
)

// multipartOverhead is the room left for form fields next to the image.
const multipartOverhead = 1 << 20

func (h *Handler) PostGetHandler(w http.ResponseWriter, r *http.Request) {
	postId, err := parseID(r, "post")
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	post, err := h.session(r).Post(r.Context(), postId)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "post.html", frontend_domain.PostPageData{Post: h.renderPost(post)})
}

// PostCommentHandler comments from the post page, which reloads the post and
// so shows the new comment right away.
func (h *Handler) PostCommentHandler(w http.ResponseWriter, r *http.Request) {
	postId, err := parseID(r, "post")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	target := fmt.Sprintf("/p/%d#comments", postId)

	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	if _, err := h.session(r).CreateComment(r.Context(), postId, text); err != nil {
		h.fail(w, r, target, err)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// NewPostGetHandler shows the upload form, with the preview of a pending
// selection when ?s= names one.
func (h *Handler) NewPostGetHandler(w http.ResponseWriter, r *http.Request) {
	var data frontend_domain.NewPostPageData
	if id := r.URL.Query().Get("s"); id != "" {
		sub, err := h.Submissions.Get(id, h.owner(r))
		if err != nil {
			h.redirectWithFlash(w, r, "/posts/new", flash.KeyError, userMessage(err))
			return
		}
		data = newPostData(sub, "")
	}
	h.renderTemplate(w, r, "new_post.html", data)
}

func newPostData(sub *imaging.Submission, caption string) frontend_domain.NewPostPageData {
	data := frontend_domain.NewPostPageData{
		SubmissionID: sub.ID,
		Preview:      sub.Preview(),
		Caption:      caption,
	}
	if img := sub.Image(); img != nil {
		data.Filename = img.Filename
	}
	return data
}

// NewPostSelectHandler validates the chosen file and keeps it server side
// until the user posts or removes it. Nothing is decoded yet.
func (h *Handler) NewPostSelectHandler(w http.ResponseWriter, r *http.Request) {
	maxSize := validation.CalculateMaxRequestSize(h.PostPolicy.MaxSizeBytes, multipartOverhead)
	if err := validation.ValidateAndParseMultipart(r, w, maxSize); err != nil {
		h.fail(w, r, "/posts/new", err)
		return
	}

	// choosing another file replaces the pending one
	if prev := r.FormValue("submission"); prev != "" {
		h.Submissions.Remove(prev)
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		h.fail(w, r, "/posts/new", validation.ErrNoFile)
		return
	}

	sub := imaging.NewSubmission(h.owner(r), h.PostPolicy)
	if err := sub.Select(imaging.CandidateFromFileHeader(files[0])); err != nil {
		h.fail(w, r, "/posts/new", err)
		return
	}
	id, err := h.Submissions.Put(sub)
	if err != nil {
		h.fail(w, r, "/posts/new", err)
		return
	}
	http.Redirect(w, r, "/posts/new?s="+id, http.StatusSeeOther)
}

// NewPostSubmitHandler checks the caption, normalizes the pending image and
// uploads it. Errors re-render the form so the caption is kept.
func (h *Handler) NewPostSubmitHandler(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("submission")
	caption := r.FormValue("caption")
	if id == "" {
		h.renderTemplateStatus(w, r, "new_post.html", http.StatusBadRequest,
			frontend_domain.NewPostPageData{Caption: caption}, imaging.MsgNoImage)
		return
	}

	sub, err := h.Submissions.Get(id, h.owner(r))
	if err != nil {
		h.renderTemplateStatus(w, r, "new_post.html", http.StatusGone,
			frontend_domain.NewPostPageData{Caption: caption}, userMessage(err))
		return
	}

	session := h.session(r)
	err = sub.Submit(r.Context(), func(ctx context.Context, body *imaging.UploadBody) error {
		_, err := session.CreatePost(ctx, body)
		return err
	}, imaging.Caption(caption, h.Public.CaptionMaxLen))
	if err != nil {
		status := errors.StatusCode(err)
		if status == http.StatusUnauthorized {
			w.WriteHeader(status)
			return
		}
		logger.Log.Info("post upload failed", "submission", id, "state", sub.State().String(), "error", err)
		h.renderTemplateStatus(w, r, "new_post.html", status, newPostData(sub, caption), userMessage(err))
		return
	}

	h.Submissions.Remove(id)
	h.redirectWithFlash(w, r, "/profile", flash.KeySuccess, "Post shared")
}

// NewPostRemoveHandler discards the pending selection.
func (h *Handler) NewPostRemoveHandler(w http.ResponseWriter, r *http.Request) {
	if id := r.FormValue("submission"); id != "" {
		if sub, err := h.Submissions.Get(id, h.owner(r)); err == nil {
			sub.Reset()
			h.Submissions.Remove(id)
		}
	}
	http.Redirect(w, r, "/posts/new", http.StatusSeeOther)
}
