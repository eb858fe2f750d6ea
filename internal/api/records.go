package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// resource names a record kind in responses.
type resource struct {
	key   string
	title string
}

var (
	expenseResource = resource{key: "expense", title: "Expense"}
	incomeResource  = resource{key: "income", title: "Income"}
	budgetResource  = resource{key: "budget", title: "Budget"}
	goalResource    = resource{key: "goal", title: "Goal"}
)

func createRecord[In, Rec any](h *Handler, res resource, create func(context.Context, int64, In) (*Rec, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := bind(c, &in); err != nil {
			h.fail(c, res.key, err)
			return
		}
		rec, err := create(c.Request.Context(), currentUser(c).ID, in)
		if err != nil {
			h.fail(c, res.key, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": res.title + " added successfully", res.key: rec})
	}
}

func listRecords[Rec any](h *Handler, res resource, list func(context.Context, int64) ([]Rec, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := list(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			h.fail(c, res.key, err)
			return
		}
		if recs == nil {
			recs = []Rec{}
		}
		c.JSON(http.StatusOK, recs)
	}
}

func getRecord[Rec any](h *Handler, res resource, get func(context.Context, int64, int64) (*Rec, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			h.fail(c, res.key, err)
			return
		}
		rec, err := get(c.Request.Context(), currentUser(c).ID, id)
		if err != nil {
			h.fail(c, res.key, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func updateRecord[P, Rec any](h *Handler, res resource, verb string, update func(context.Context, int64, int64, P) (*Rec, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			h.fail(c, res.key, err)
			return
		}
		var p P
		if err := bind(c, &p); err != nil {
			h.fail(c, res.key, err)
			return
		}
		rec, err := update(c.Request.Context(), currentUser(c).ID, id, p)
		if err != nil {
			h.fail(c, res.key, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": res.title + " " + verb + " successfully", res.key: rec})
	}
}

func deleteRecord(h *Handler, res resource, del func(context.Context, int64, int64) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			h.fail(c, res.key, err)
			return
		}
		if err := del(c.Request.Context(), currentUser(c).ID, id); err != nil {
			h.fail(c, res.key, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": res.title + " removed successfully"})
	}
}
