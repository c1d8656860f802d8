package params

import "github.com/labstack/echo/v4"

// QueryParams carries standard pagination query values.
type QueryParams struct {
	PageNumber int `query:"page"`
	PageSize   int `query:"page_size"`
}

// Bind extracts pagination params from the request with sane defaults.
func Bind(c echo.Context) QueryParams {
	var p QueryParams
	_ = c.Bind(&p)

	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	return p
}
