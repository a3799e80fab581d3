package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/models"
)

const (
	DefaultPauseMinutes       = 60
	DefaultAccompaniedMinutes = 120
	maxWindowMinutes          = 24 * 60
)

func (rs *RestfulServer) GetAlertConfig(c *gin.Context) {
	deviceID := c.Param("device_id")

	if _, err := rs.Iot.Device.GetDevice(c.Request.Context(), deviceID); err != nil {
		rs.respondError(c, err)
		return
	}

	config, _, err := rs.Iot.Config.GetOrCreateAlertConfig(c.Request.Context(), deviceID)
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertConfigResponse(config))
}

type AlertConfigRequest struct {
	Enabled               *bool    `json:"enabled" zog:"enabled"`
	Emails                []string `json:"emails" zog:"emails"`
	Phones                []string `json:"phones" zog:"phones"`
	AlertFrequencyMinutes int      `json:"alert_frequency_minutes" zog:"alert_frequency_minutes"`
}

var alertConfigRequestSchema = z.Struct(z.Shape{
	"Enabled":               z.Ptr(z.Bool()),
	"Emails":                z.Slice(z.String().Email()),
	"Phones":                z.Slice(z.String().Min(5)),
	"AlertFrequencyMinutes": z.Int().GTE(models.MinAlertFrequencyMinutes).LTE(models.MaxAlertFrequencyMinutes),
})

func (rs *RestfulServer) PostAlertConfig(c *gin.Context) {
	var req AlertConfigRequest
	if err := alertConfigRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	recipients := append(
		common.Mapper(req.Emails, models.EmailRecipient),
		common.Mapper(req.Phones, models.PhoneRecipient)...,
	)
	input := &models.AlertConfig{
		Enabled:               enabled,
		AlertFrequencyMinutes: req.AlertFrequencyMinutes,
	}
	input.SetRecipients(recipients)

	config, err := rs.Iot.Config.UpsertAlertConfig(c.Request.Context(), c.Param("device_id"), input)
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertConfigResponse(config))
}

func (rs *RestfulServer) GetAlertStatus(c *gin.Context) {
	status, err := rs.Iot.Status.GetAlertStatus(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertStatusResponse(status, time.Now()))
}

type WindowRequest struct {
	Minutes int `json:"minutes" zog:"minutes"`
}

var pauseRequestSchema = z.Struct(z.Shape{
	"Minutes": z.Int().GTE(1).LTE(maxWindowMinutes).Default(DefaultPauseMinutes),
})

var accompaniedRequestSchema = z.Struct(z.Shape{
	"Minutes": z.Int().GTE(1).LTE(maxWindowMinutes).Default(DefaultAccompaniedMinutes),
})

var pauseConfirmPage = template.Must(template.New("pause").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Pause alerts</title></head>
<body>
<p>Pause safe-zone alerts for {{.DeviceName}} for {{.Minutes}} minutes?</p>
<form method="post" action="{{.Action}}">
<input type="hidden" name="minutes" value="{{.Minutes}}">
<button type="submit">Pause alerts</button>
</form>
</body>
</html>
`))

// PauseConfirm is the deep link embedded in alert messages. It only renders a
// form, link scanners that prefetch it do not pause anything.
func (rs *RestfulServer) PauseConfirm(c *gin.Context) {
	device, err := rs.Iot.Device.GetDevice(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		rs.respondError(c, err)
		return
	}

	var page bytes.Buffer
	if err := pauseConfirmPage.Execute(&page, map[string]any{
		"DeviceName": device.Name,
		"Minutes":    DefaultPauseMinutes,
		"Action":     c.Request.URL.Path,
	}); err != nil {
		rs.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}

// PauseAlerts serves both the API call and the form posted from the
// confirmation page.
func (rs *RestfulServer) PauseAlerts(c *gin.Context) {
	var req WindowRequest
	if err := pauseRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	until := time.Now().Add(time.Duration(req.Minutes) * time.Minute)
	status, err := rs.Iot.Status.PauseAlerts(c.Request.Context(), c.Param("device_id"), until)
	if err != nil {
		rs.respondError(c, err)
		return
	}

	if c.ContentType() == gin.MIMEPOSTForm {
		c.String(http.StatusOK, fmt.Sprintf("Alerts paused until %s.", until.UTC().Format("2006-01-02 15:04 MST")))
		return
	}
	c.JSON(http.StatusOK, toAlertStatusResponse(status, time.Now()))
}

func (rs *RestfulServer) ResumeAlerts(c *gin.Context) {
	status, err := rs.Iot.Status.ResumeAlerts(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertStatusResponse(status, time.Now()))
}

func (rs *RestfulServer) StartAccompanied(c *gin.Context) {
	var req WindowRequest
	if err := accompaniedRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	until := time.Now().Add(time.Duration(req.Minutes) * time.Minute)
	status, err := rs.Iot.Status.SetAccompaniedMode(c.Request.Context(), c.Param("device_id"), true, &until)
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertStatusResponse(status, time.Now()))
}

func (rs *RestfulServer) StopAccompanied(c *gin.Context) {
	status, err := rs.Iot.Status.SetAccompaniedMode(c.Request.Context(), c.Param("device_id"), false, nil)
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertStatusResponse(status, time.Now()))
}

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	history, err := rs.Iot.Alert.GetDeviceAlertHistory(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.Mapper(history, toAlertHistoryResponse))
}
