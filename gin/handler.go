package gin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/koomastudio/postvault"
	"github.com/koomastudio/postvault/ingest"
)

const userKey = "postvault.user"

// bearerToken extracts the raw credential from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// requireUser authenticates the bearer token and stores the user on the
// request context.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.TokenService.AuthenticateToken(c.Request.Context(), bearerToken(c))
		if err != nil {
			s.error(c, err)
			c.Abort()
			return
		}
		c.Set(userKey, user)
	}
}

func currentUser(c *gin.Context) *postvault.User {
	return c.MustGet(userKey).(*postvault.User)
}

type saveRequest struct {
	Input     string               `json:"input"`
	Markup    string               `json:"markup"`
	Candidate *postvault.Candidate `json:"candidate"`

	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
	CollectionIDs []string `json:"collectionIds"`
}

// handleSave serves both the extension save endpoint and the API save
// endpoint; the two differ only in CORS handling.
func (s *Server) handleSave(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, postvault.Errorf(postvault.EINVALID, "invalid request body"))
		return
	}

	result, err := s.Ingest.Save(c.Request.Context(), ingest.SaveRequest{
		Credential:    bearerToken(c),
		Input:         req.Input,
		Markup:        req.Markup,
		Manual:        req.Candidate,
		Tags:          req.Tags,
		Notes:         req.Notes,
		CollectionIDs: req.CollectionIDs,
	})
	if err != nil {
		s.error(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

type extractRequest struct {
	Input  string `json:"input"`
	Markup string `json:"markup"`
}

// handleExtract runs extraction without persisting anything. A failed
// extraction is a 200 with extracted=false so the client can fall back to
// manual entry.
func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, postvault.Errorf(postvault.EINVALID, "invalid request body"))
		return
	}

	candidate, err := s.Ingest.Extract(c.Request.Context(), ingest.ExtractRequest{
		Credential: bearerToken(c),
		Input:      req.Input,
		Markup:     req.Markup,
	})
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"extracted": candidate != nil,
		"candidate": candidate,
	})
}

func (s *Server) handleQuota(c *gin.Context) {
	status, err := s.Ingest.Quota(c.Request.Context(), bearerToken(c))
	if err != nil {
		s.error(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handleListSavedPosts(c *gin.Context) {
	user := currentUser(c)

	filter := postvault.SavedPostFilter{
		Search: c.Query("q"),
		Offset: intQuery(c, "offset"),
		Limit:  intQuery(c, "limit"),
	}
	if collection := c.Query("collection"); collection != "" {
		filter.CollectionID = &collection
	}

	saves, err := s.SavedPostService.FindSavedPosts(c.Request.Context(), user.ID, filter)
	if err != nil {
		s.error(c, err)
		return
	}
	if saves == nil {
		saves = []*postvault.SavedPost{}
	}
	c.JSON(http.StatusOK, gin.H{"savedPosts": saves})
}

func (s *Server) handleGetSavedPost(c *gin.Context) {
	user := currentUser(c)

	saved, err := s.SavedPostService.FindSavedPostByID(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		s.error(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

type updateSavedPostRequest struct {
	Tags          *[]string `json:"tags"`
	Notes         *string   `json:"notes"`
	CollectionIDs *[]string `json:"collectionIds"`
}

func (s *Server) handleUpdateSavedPost(c *gin.Context) {
	user := currentUser(c)

	var req updateSavedPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, postvault.Errorf(postvault.EINVALID, "invalid request body"))
		return
	}

	saved, err := s.SavedPostService.UpdateSavedPost(c.Request.Context(), user.ID, c.Param("id"), postvault.SavedPostUpdate{
		Tags:          req.Tags,
		Notes:         req.Notes,
		CollectionIDs: req.CollectionIDs,
	})
	if err != nil {
		s.error(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) handleDeleteSavedPost(c *gin.Context) {
	user := currentUser(c)

	if err := s.SavedPostService.DeleteSavedPost(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		s.error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListCollections(c *gin.Context) {
	user := currentUser(c)

	collections, err := s.CollectionService.FindCollections(c.Request.Context(), user.ID)
	if err != nil {
		s.error(c, err)
		return
	}
	if collections == nil {
		collections = []*postvault.Collection{}
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

type createCollectionRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateCollection(c *gin.Context) {
	user := currentUser(c)

	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, postvault.Errorf(postvault.EINVALID, "invalid request body"))
		return
	}

	collection := &postvault.Collection{UserID: user.ID, Name: req.Name}
	if err := s.CollectionService.CreateCollection(c.Request.Context(), collection); err != nil {
		s.error(c, err)
		return
	}
	c.JSON(http.StatusCreated, collection)
}

func (s *Server) handleDeleteCollection(c *gin.Context) {
	user := currentUser(c)

	if err := s.CollectionService.DeleteCollection(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		s.error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func intQuery(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
