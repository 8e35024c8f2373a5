package server

import (
	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type updatePostRequest struct {
	Title       models.OptionalString `json:"title" swaggertype:"string"`
	Description models.OptionalString `json:"description" swaggertype:"string"`
}

// CreatePostResponse echoes the submitted fields with the assigned id.
type CreatePostResponse struct {
	ID          uint    `json:"idPost"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Message     string  `json:"message"`
}

// PostActionResponse acknowledges an update or delete.
type PostActionResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"idPost"`
}

// GetPosts handles GET /posts
// @Summary List posts
// @Description Returns every post, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondError(c, "list", err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, "get", err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{title=string,description=string} true "New post"
// @Success 201 {object} CreatePostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := decodeBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, "create", err)
	}

	return c.Status(fiber.StatusCreated).JSON(CreatePostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		Message:     "Post created",
	})
}

// UpdatePost handles PUT /posts/:id
// @Summary Update a post
// @Description Writes the fields that are present and non-empty; the others keep their stored value
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{title=string,description=string} true "Fields to change"
// @Success 200 {object} PostActionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := decodeBody(c, &req); err != nil {
		return nil
	}

	patch := models.PostPatch{Title: req.Title, Description: req.Description}
	if err := s.postService.UpdatePost(c.UserContext(), id, patch); err != nil {
		return respondError(c, "update", err)
	}

	return c.JSON(PostActionResponse{Message: "Post updated", ID: id})
}

// DeletePost handles DELETE /posts/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostActionResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return respondError(c, "delete", err)
	}

	return c.JSON(PostActionResponse{Message: "Post deleted", ID: id})
}
