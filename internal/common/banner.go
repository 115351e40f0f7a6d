package common

import (
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner
func PrintBanner() {
	banner.PrintSimple("CRMLens", GetVersion())
}
