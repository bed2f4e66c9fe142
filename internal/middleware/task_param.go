package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

const contextKeyTaskID = "task_id"

// RequireTaskID parses the :id path parameter of task routes
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || taskID == 0 {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		c.Set(contextKeyTaskID, taskID)
		c.Next()
	}
}

// GetTaskID returns the task ID parsed by RequireTaskID
func GetTaskID(c *gin.Context) uint64 {
	return c.GetUint64(contextKeyTaskID)
}
