package daemon

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/ambient"
	"github.com/autocal/autocal/pkg/config"
	"github.com/autocal/autocal/pkg/types"
	"github.com/autocal/autocal/pkg/version"
)

func getStatus(c *gin.Context) {
	status := types.Status{
		Schedule: conf.Schedule(),
		LastRun:  lastRunSnapshot(),
	}

	if next, _ := sched.Status(); !next.IsZero() {
		status.NextRun = &next
	}

	c.IndentedJSON(http.StatusOK, status)
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func applyNow(c *gin.Context) {
	var req types.ApplyRequest
	if err := c.BindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	cond := ambient.Condition(req.Condition)
	if cond != "" && !cond.Valid() {
		err := fmt.Errorf("unknown condition %q, expected low, medium or high", req.Condition)
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	res, err := applyOnce(c.Request.Context(), cond)
	if err != nil {
		logrus.Errorf("apply failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, res)
		return
	}

	c.IndentedJSON(http.StatusCreated, res)
}

func setSchedule(c *gin.Context) {
	var req types.ScheduleRequest
	if err := c.BindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if req.Cron == "" {
		sched.Clear()
	} else if err := sched.Schedule(req.Cron); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	conf.SetSchedule(req.Cron)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if req.Cron == "" {
		logrus.Info("scheduled applies disabled")
	} else {
		logrus.Infof("schedule set to %q", req.Cron)
	}

	c.IndentedJSON(http.StatusCreated, "ok")
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
