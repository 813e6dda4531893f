package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "eosoracle/internal/errors"
	"eosoracle/internal/ledger"
	"eosoracle/internal/middleware"
	"eosoracle/internal/services"
)

// SecurityHandler handles security and price requests.
type SecurityHandler struct {
	securityService services.SecurityServicer
	auditService    services.AuditServicer
}

// NewSecurityHandler creates a new SecurityHandler.
func NewSecurityHandler(securityService services.SecurityServicer, auditService services.AuditServicer) *SecurityHandler {
	return &SecurityHandler{securityService: securityService, auditService: auditService}
}

func (h *SecurityHandler) audit(c *gin.Context, action string, securityID uint64, receipt *ledger.TransactionReceipt, changes map[string]interface{}) {
	h.auditService.Log(c.GetString(middleware.UserKey), action, securityID, receipt.TransactionID, c.ClientIP(), changes)
}

// CreateSecurityRequest represents the request payload for creating a security.
type CreateSecurityRequest struct {
	Symbol        string `json:"symbol" form:"symbol" binding:"required"`
	ExchangeName  string `json:"exchangeName" form:"exchangeName" binding:"required_unless=SecurityType forex"`
	QuoteCurrency string `json:"quoteCurrency" form:"quoteCurrency" binding:"required"`
	SecurityType  string `json:"securityType" form:"securityType" binding:"required,security_type"`
}

// SetPriceRequest represents the request payload for posting a price. Both
// fields accept a JSON number or a numeric string.
type SetPriceRequest struct {
	SecurityID json.Number `json:"securityId" form:"securityId" binding:"required,number" swaggertype:"string"`
	Price      json.Number `json:"price" form:"price" binding:"required,price" swaggertype:"string"`
}

// CreateSecurityResponse is returned when a security was created.
type CreateSecurityResponse struct {
	Status      string                     `json:"status"`
	SecurityID  uint64                     `json:"securityId"`
	Transaction *ledger.TransactionReceipt `json:"transaction"`
}

// TransactionResponse is returned by the mutating endpoints.
type TransactionResponse struct {
	Status      string                     `json:"status"`
	Transaction *ledger.TransactionReceipt `json:"transaction"`
}

// SecurityTypesResponse lists the security types as {key: description} pairs.
type SecurityTypesResponse struct {
	SecurityTypes []map[string]string `json:"securityTypes"`
}

// CreateSecurity handles creating a new security on the ledger.
// @Summary     Create security
// @Description Submit a new security to the oracle contract and return the id it was assigned
// @Tags        securities
// @Accept      json,x-www-form-urlencoded
// @Produce     json
// @Security    BasicAuth
// @Param       request body CreateSecurityRequest true "Security details"
// @Success     201 {object} CreateSecurityResponse "Security created"
// @Failure     400 {object} ErrorResponse "Incorrect or missing parameters"
// @Failure     401 {object} ErrorResponse "Authentication required"
// @Failure     502 {object} ErrorResponse "Ledger error"
// @Router      /createSecurity [post]
func (h *SecurityHandler) CreateSecurity(c *gin.Context) {
	var req CreateSecurityRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	created, err := h.securityService.CreateSecurity(c.Request.Context(), services.CreateSecurityInput{
		Symbol:        req.Symbol,
		ExchangeName:  req.ExchangeName,
		QuoteCurrency: req.QuoteCurrency,
		SecurityType:  req.SecurityType,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "CREATE_SECURITY", created.SecurityID, created.Transaction,
		map[string]interface{}{"symbol": req.Symbol, "security_type": req.SecurityType})

	c.JSON(http.StatusCreated, CreateSecurityResponse{
		Status:      "ok",
		SecurityID:  created.SecurityID,
		Transaction: created.Transaction,
	})
}

// EraseSecurity handles removing a security from the ledger.
// @Summary     Erase security
// @Description Submit an erase action for the security. Unknown ids are rejected by the contract.
// @Tags        securities
// @Produce     json
// @Security    BasicAuth
// @Param       securityId query int true "Security ID"
// @Success     200 {object} TransactionResponse "Security erased"
// @Failure     400 {object} ErrorResponse "Incorrect or missing parameters"
// @Failure     401 {object} ErrorResponse "Authentication required"
// @Failure     502 {object} ErrorResponse "Ledger error"
// @Router      /security [delete]
func (h *SecurityHandler) EraseSecurity(c *gin.Context) {
	securityID, err := parseID(c.Query("securityId"), "securityId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	receipt, err := h.securityService.EraseSecurity(c.Request.Context(), securityID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "ERASE_SECURITY", securityID, receipt, nil)

	c.JSON(http.StatusOK, TransactionResponse{Status: "ok", Transaction: receipt})
}

// SetPrice handles posting the last traded price of a security.
// @Summary     Set price
// @Description Record the last traded price of a security, stamped with the server time
// @Tags        prices
// @Accept      json,x-www-form-urlencoded
// @Produce     json
// @Security    BasicAuth
// @Param       request body SetPriceRequest true "Security ID and price"
// @Success     200 {object} TransactionResponse "Price recorded"
// @Failure     400 {object} ErrorResponse "Incorrect or missing parameters"
// @Failure     401 {object} ErrorResponse "Authentication required"
// @Failure     502 {object} ErrorResponse "Ledger error"
// @Router      /setPrice [post]
func (h *SecurityHandler) SetPrice(c *gin.Context) {
	var req SetPriceRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	securityID, err := parseID(req.SecurityID.String(), "securityId")
	if err != nil {
		respondWithError(c, err)
		return
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		respondWithError(c, apperrors.MissingParameter("price"))
		return
	}

	receipt, err := h.securityService.SetPrice(c.Request.Context(), securityID, price)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, "SET_PRICE", securityID, receipt, map[string]interface{}{"price": price.String()})

	c.JSON(http.StatusOK, TransactionResponse{Status: "ok", Transaction: receipt})
}

// ListSecurities handles listing securities, optionally filtered by type.
// @Summary     List securities
// @Description Get up to 1000 securities in id order, optionally only those of one type
// @Tags        securities
// @Produce     json
// @Param       securityType query string false "Security type key" Enums(spot_cryptos, forex, equity, index)
// @Success     200 {array}  models.Security "Securities"
// @Failure     400 {object} ErrorResponse "Unknown security type"
// @Failure     502 {object} ErrorResponse "Ledger error"
// @Router      /securities [get]
func (h *SecurityHandler) ListSecurities(c *gin.Context) {
	securities, err := h.securityService.ListSecurities(c.Request.Context(), c.Query("securityType"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, securities)
}

// GetPrices handles fetching the last price of several securities.
// @Summary     Get prices
// @Description Get the last price of each security. A failing id yields an error object tagged with its securityId in place of the price; the order of the ids is kept.
// @Tags        prices
// @Produce     json
// @Param       securityIds query string true "Comma separated security IDs, at most 100" example(1,2,3)
// @Success     200 {array}  models.Price "Prices, or per-id error objects"
// @Failure     400 {object} ErrorResponse "Incorrect or missing parameters"
// @Router      /prices [get]
func (h *SecurityHandler) GetPrices(c *gin.Context) {
	securityIDs, err := parseIDList(c.Query("securityIds"), "securityIds")
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.securityService.GetPrices(c.Request.Context(), securityIDs))
}

// ListSecurityTypes handles listing the supported security types.
// @Summary     List security types
// @Description Get the fixed list of security types as {key: description} pairs
// @Tags        securities
// @Produce     json
// @Success     200 {object} SecurityTypesResponse "Security types"
// @Router      /securityTypes [get]
func (h *SecurityHandler) ListSecurityTypes(c *gin.Context) {
	types := h.securityService.SecurityTypes()
	resp := SecurityTypesResponse{SecurityTypes: make([]map[string]string, 0, len(types))}
	for _, t := range types {
		resp.SecurityTypes = append(resp.SecurityTypes, map[string]string{string(t.Type): t.Description})
	}

	c.JSON(http.StatusOK, resp)
}
