package controllers

import (
	"net/http"

	"Wordfuse/services/dictionary"

	"github.com/gin-gonic/gin"
)

// @Summary Dictionary statistics
// @Description Returns how many words and distinct fragments the loaded dictionary holds
// @Tags dictionary
// @Produce json
// @Success 200 {object} object{word_count=integer,fragment_count=integer}
// @Router /dictionary/stats [get]
func DictionaryStats(dict *dictionary.Dictionary) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := dict.Stats()
		c.JSON(http.StatusOK, gin.H{
			"word_count":     stats.WordCount,
			"fragment_count": stats.FragmentCount,
		})
	}
}
