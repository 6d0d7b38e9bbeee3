package gateway

import (
	"errors"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/gin-gonic/gin"

	"github.com/warp-contracts/minter/src/cw20"
	"github.com/warp-contracts/minter/src/cw721"
	"github.com/warp-contracts/minter/src/gateway/response"
	"github.com/warp-contracts/minter/src/minter"
	"github.com/warp-contracts/minter/src/utils/host"
	. "github.com/warp-contracts/minter/src/utils/logger"
)

// HTTP status of a failed transaction or query
func statusOf(err error) int {
	switch {
	case errors.Is(err, minter.ErrUnauthorized),
		errors.Is(err, cw20.ErrUnauthorized),
		errors.Is(err, cw721.ErrUnauthorized),
		errors.Is(err, host.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, minter.ErrSubcallFailure),
		errors.Is(err, host.ErrContractPanic):
		return http.StatusInternalServerError
	}

	codespace, _, _ := errorsmod.ABCIInfo(err, false)
	if codespace == errorsmod.UndefinedCodespace {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// Responds with the error's codespace and code. Internal errors aren't exposed
func (self *Server) fail(c *gin.Context, err error, msg string) {
	status := statusOf(err)
	codespace, code, log := errorsmod.ABCIInfo(err, false)
	c.AbortWithStatusJSON(status, &response.Error{
		Code:      code,
		Codespace: codespace,
		Error:     log,
	})

	if status == http.StatusInternalServerError {
		self.monitor.GetReport().Gateway.Errors.Internal.Inc()
		LOGE(c, err, status).Error(msg)
	} else {
		self.monitor.GetReport().Gateway.Errors.BadRequest.Inc()
		LOGE(c, err, status).Info(msg)
	}
}

func (self *Server) badRequest(c *gin.Context, err error, msg string) {
	self.monitor.GetReport().Gateway.Errors.BadRequest.Inc()
	c.AbortWithStatusJSON(http.StatusBadRequest, &response.Error{
		Code:      1,
		Codespace: "gateway",
		Error:     err.Error(),
	})
	LOGE(c, err, http.StatusBadRequest).Info(msg)
}
