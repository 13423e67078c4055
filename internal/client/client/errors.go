package client

import (
	"fmt"

	"github.com/dmitrijs2005/songbook/internal/common"
)

var (
	ErrUnavailable  = fmt.Errorf("server unavailable: %w", common.ErrNetworkUnavailable)
	ErrUnauthorized = common.ErrUnauthorized
)
