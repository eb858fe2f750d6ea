package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishek991-rag/PFM-Backend/internal/service"
)

func (h *Handler) register(c *gin.Context) {
	var in service.RegisterInput
	if err := bind(c, &in); err != nil {
		h.fail(c, "user", err)
		return
	}
	session, err := h.accounts.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "user", err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) login(c *gin.Context) {
	var in service.LoginInput
	if err := bind(c, &in); err != nil {
		h.fail(c, "user", err)
		return
	}
	session, err := h.accounts.Login(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) profile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var p service.ProfilePatch
	if err := bind(c, &p); err != nil {
		h.fail(c, "user", err)
		return
	}
	user, err := h.accounts.UpdateProfile(c.Request.Context(), currentUser(c).ID, p)
	if err != nil {
		h.fail(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (h *Handler) deleteAccount(c *gin.Context) {
	if err := h.accounts.DeleteAccount(c.Request.Context(), currentUser(c).ID); err != nil {
		h.fail(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User account and associated data removed successfully"})
}
