package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

// maxMediaUploadSize bounds one media upload request.
const maxMediaUploadSize = 32 << 20

// CreatePost publishes a new post owned by the acting artisan.
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}

	p, err := h.posts.Create(c.Request.Context(), post.CreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Type:          post.Type(req.Type),
		Price:         *req.Price,
		PaymentMethod: post.PaymentMethod(req.PaymentMethod),
		Delivery:      post.DeliveryOption(req.Delivery),
	}, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(p, p.ArtisanID))
}

// ListPosts returns a page of posts matching the query filters.
func (h *Handler) ListPosts(c *gin.Context) {
	filter := post.Filter{
		ArtisanID:     c.Query("artisan"),
		Type:          post.Type(c.Query("type")),
		Category:      user.Category(c.Query("category")),
		PaymentMethod: post.PaymentMethod(c.Query("paymentMethod")),
		Delivery:      post.DeliveryOption(c.Query("delivery")),
		IsActive:      queryBool(c, "isActive"),
		PriceMin:      queryDecimal(c, "priceMin"),
		PriceMax:      queryDecimal(c, "priceMax"),
	}

	page, err := h.posts.Query(c.Request.Context(), filter, pageOptions(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	results := make([]postResponse, len(page.Results))
	for i := range page.Results {
		results[i] = toDetailedPostResponse(&page.Results[i])
	}
	c.JSON(http.StatusOK, postPageResponse{
		Results:      results,
		Page:         page.Page,
		Limit:        page.Limit,
		TotalPages:   page.TotalPages,
		TotalResults: page.TotalResults,
	})
}

// GetPost returns one post with its artisan contact.
func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("postId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailedPostResponse(p))
}

// UpdatePost patches one post.
func (h *Handler) UpdatePost(c *gin.Context) {
	var req updatePostRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}

	in := post.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	}
	if req.Type != nil {
		t := post.Type(*req.Type)
		in.Type = &t
	}
	if req.PaymentMethod != nil {
		pm := post.PaymentMethod(*req.PaymentMethod)
		in.PaymentMethod = &pm
	}
	if req.Delivery != nil {
		d := post.DeliveryOption(*req.Delivery)
		in.Delivery = &d
	}

	p, err := h.posts.Update(c.Request.Context(), c.Param("postId"), in, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailedPostResponse(p))
}

// DeletePost removes one post and its remote media.
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("postId"), actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPostMedia attaches the uploaded files under the "media" form field to
// the post.
func (h *Handler) UploadPostMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMediaUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond(c, http.StatusBadRequest, "invalid multipart form")
		return
	}
	headers := form.File["media"]
	if len(headers) == 0 {
		respond(c, http.StatusBadRequest, "no media files in request")
		return
	}

	files := make([][]byte, 0, len(headers))
	contentTypes := make([]string, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			respond(c, http.StatusBadRequest, "unreadable media file")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respond(c, http.StatusBadRequest, "unreadable media file")
			return
		}
		files = append(files, data)
		contentTypes = append(contentTypes, fh.Header.Get("Content-Type"))
	}

	p, err := h.posts.UploadMedia(c.Request.Context(), c.Param("postId"), files, contentTypes, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailedPostResponse(p))
}

// DeletePostMedia removes one attachment from the post.
func (h *Handler) DeletePostMedia(c *gin.Context) {
	p, err := h.posts.DeleteMedia(c.Request.Context(), c.Param("postId"), c.Param("mediaId"), actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailedPostResponse(p))
}
