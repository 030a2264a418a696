package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prestadero/prestamos-api/internal/middleware"
	"github.com/prestadero/prestamos-api/internal/services"
)

type ClientHandler struct {
	clientService *services.ClientService
	loanService   *services.LoanService
}

func NewClientHandler(clientService *services.ClientService, loanService *services.LoanService) *ClientHandler {
	return &ClientHandler{clientService: clientService, loanService: loanService}
}

// Index lists the client directory, optionally filtered by search term
func (h *ClientHandler) Index(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, cl := range clients {
		responses = append(responses, cl.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"clients": responses})
}

// Show returns one client
func (h *ClientHandler) Show(c *gin.Context) {
	client, err := h.clientService.Get(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse()})
}

// Create adds a client to the directory
func (h *ClientHandler) Create(c *gin.Context) {
	var input services.ClientInput
	if err := BindNestedOrFlat(c, "client", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del cliente inválidos"})
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), &input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client.ToResponse(), "message": "Cliente registrado"})
}

// Update edits a client's directory fields
func (h *ClientHandler) Update(c *gin.Context) {
	var input services.ClientInput
	if err := BindNestedOrFlat(c, "client", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del cliente inválidos"})
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), c.Param("client_id"), &input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse(), "message": "Cliente actualizado"})
}

// Destroy removes a client without loans on the books
func (h *ClientHandler) Destroy(c *gin.Context) {
	if err := h.clientService.Delete(c.Request.Context(), c.Param("client_id"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}

// IndexLoans lists a client's loans, newest origination first
func (h *ClientHandler) IndexLoans(c *gin.Context) {
	loans, err := h.loanService.ByClient(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, l := range loans {
		responses = append(responses, l.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"loans": responses})
}
