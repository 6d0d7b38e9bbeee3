package request

type GetTokens struct {
	Owner      string `form:"owner"`
	StartAfter string `form:"start_after"`
	Limit      uint32 `form:"limit"`
}

type GetBalance struct {
	Address string `form:"address" binding:"required"`
}
