package handlers

import (
	"net/http"

	"homeserve/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler publishes the key clients use to encrypt login payloads.
type AuthHandler struct {
	Cipher *utils.PayloadCipher
}

func NewAuthHandler(cipher *utils.PayloadCipher) *AuthHandler {
	return &AuthHandler{Cipher: cipher}
}

func (h *AuthHandler) PublicKeyHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"publicKey": h.Cipher.PublicKeyPEM(),
		"algorithm": "RSA-OAEP-SHA256",
	})
}
