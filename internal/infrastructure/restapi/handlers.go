package restapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/domain/scoring"
)

// DataResponse wraps every successful payload.
type DataResponse struct {
	Data any `json:"data"`
}

// TokensResponse is the body of GET /dashboard/:address/tokens.
type TokensResponse struct {
	Address   string                `json:"address"`
	Tokens    []entity.TokenBalance `json:"tokens"`
	TotalFiat float64               `json:"totalFiat"`
	Errors    []entity.FetchError   `json:"errors,omitempty"`
}

// FavoritesResponse is the body of the favorites endpoints.
type FavoritesResponse struct {
	Owner     string   `json:"owner"`
	ObjectIDs []string `json:"objectIds"`
}

// Services groups the application services the handlers call.
type Services struct {
	Dashboard port.DashboardService
	Favorites port.FavoritesService
	INFTs     port.INFTService
	Blobs     port.BlobService
	Mint      port.MintService
	Chat      port.ChatService
}

// Handler serves the /api/v1 routes.
type Handler struct {
	svc            Services
	hub            *Hub
	maxUploadBytes int64
	logger         port.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc Services, hub *Hub, maxUploadBytes int64, logger port.Logger) *Handler {
	return &Handler{svc: svc, hub: hub, maxUploadBytes: maxUploadBytes, logger: logger}
}

// GetDashboard returns the latest applied snapshot, refreshing if there is none.
func (h *Handler) GetDashboard(c *gin.Context) {
	snap, err := h.svc.Dashboard.Latest(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: snap})
}

// RefreshDashboard runs one refresh cycle. The body carries the applied flag.
func (h *Handler) RefreshDashboard(c *gin.Context) {
	res, err := h.svc.Dashboard.Refresh(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: res})
}

// GetTokens returns the valued token list of the latest snapshot.
func (h *Handler) GetTokens(c *gin.Context) {
	snap, err := h.svc.Dashboard.Latest(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: TokensResponse{
		Address:   snap.Address,
		Tokens:    snap.Balances.Tokens,
		TotalFiat: snap.Balances.TotalFiat,
		Errors:    snap.Balances.Errors,
	}})
}

// GetCollectibles returns the collectibles of the latest snapshot.
func (h *Handler) GetCollectibles(c *gin.Context) {
	snap, err := h.svc.Dashboard.Latest(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: snap.Collectibles})
}

// GetActivity returns the merged transaction history of the latest snapshot.
func (h *Handler) GetActivity(c *gin.Context) {
	snap, err := h.svc.Dashboard.Latest(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: snap.Activity})
}

// Score runs the score engine on caller supplied inputs.
func (h *Handler) Score(c *gin.Context) {
	var in entity.ScoreInputs
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err))
		return
	}
	if err := in.Validate(); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: scoring.Compute(in)})
}

// ListFavorites returns the favorite object ids of an owner.
func (h *Handler) ListFavorites(c *gin.Context) {
	h.favoritesReply(c)(h.svc.Favorites.List(c.Request.Context(), c.Param("owner")))
}

// AddFavorite marks an object as favorite.
func (h *Handler) AddFavorite(c *gin.Context) {
	h.favoritesReply(c)(h.svc.Favorites.Add(c.Request.Context(), c.Param("owner"), c.Param("objectId")))
}

// RemoveFavorite unmarks an object.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.favoritesReply(c)(h.svc.Favorites.Remove(c.Request.Context(), c.Param("owner"), c.Param("objectId")))
}

func (h *Handler) favoritesReply(c *gin.Context) func([]string, error) {
	return func(ids []string, err error) {
		if err != nil {
			abortWithError(c, err)
			return
		}
		owner, _ := entity.NormalizeAddress(c.Param("owner"))
		c.JSON(http.StatusOK, DataResponse{Data: FavoritesResponse{Owner: owner, ObjectIDs: ids}})
	}
}

// ListINFTs returns the platform INFTs owned by an address.
func (h *Handler) ListINFTs(c *gin.Context) {
	infts, err := h.svc.INFTs.ListINFTs(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: infts})
}

// UploadBlob stores the multipart "file" in the blob store.
func (h *Handler) UploadBlob(c *gin.Context) {
	data, contentType, err := h.readFormFile(c, "file")
	if err != nil {
		abortWithError(c, err)
		return
	}
	stored, err := h.svc.Blobs.Upload(c.Request.Context(), entity.BlobUpload{
		Data:        data,
		ContentType: contentType,
		SuiAddress:  c.PostForm("suiAddress"),
		SuiNetwork:  c.PostForm("suiNetwork"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: stored})
}

// PrepareMint uploads the image and metadata of a new INFT and returns the
// call for the wallet to sign.
func (h *Handler) PrepareMint(c *gin.Context) {
	image, contentType, err := h.readFormFile(c, "image")
	if err != nil {
		abortWithError(c, err)
		return
	}
	draft, err := h.svc.Mint.PrepareMint(c.Request.Context(), entity.MintRequest{
		Owner:            c.PostForm("owner"),
		Name:             c.PostForm("name"),
		Description:      c.PostForm("description"),
		Image:            image,
		ImageContentType: contentType,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: draft})
}

// Chat forwards a message to the INFT persona.
func (h *Handler) Chat(c *gin.Context) {
	var req entity.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err))
		return
	}
	reply, err := h.svc.Chat.Reply(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: reply})
}

// DashboardSocket upgrades to a websocket that receives every applied
// snapshot of the address, starting with the current one if any.
func (h *Handler) DashboardSocket(c *gin.Context) {
	addr, err := entity.NormalizeAddress(c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	var initial *entity.DashboardSnapshot
	if snap, ok := h.svc.Dashboard.Snapshot(addr); ok {
		initial = &snap
	}
	if err := h.hub.Serve(c.Writer, c.Request, addr, initial); err != nil {
		h.logger.Warn("Websocket upgrade failed", "address", addr, "error", err)
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP", "websocketClients": h.hub.Count()})
}

// formOverhead is the room left in an upload body for the text fields and
// multipart framing.
const formOverhead = 64 << 10

// readFormFile returns the content of a multipart file field. A missing file
// yields nil data, which the blob and mint services reject. The request body
// is capped before it is parsed.
func (h *Handler) readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+formOverhead)
	}
	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("%w: request body exceeds %d bytes", errRequestTooLarge, tooLarge.Limit)
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("%w: %s: %v", entity.ErrInvalidInput, field, err)
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", entity.ErrInvalidInput, field, h.maxUploadBytes)
	}
	data, err := readMultipart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func readMultipart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
