package app

import "fmt"

// Application-level errors for the tide service and selection flow.
var ErrUnknownCounty = fmt.Errorf("county is not in the location directory")
var ErrUnknownRegion = fmt.Errorf("region is not in the location directory")
var ErrSelectionNotFound = fmt.Errorf("selection session not found")
var ErrSelectionExpired = fmt.Errorf("selection session expired")
var ErrSelectionForeignUser = fmt.Errorf("selection session belongs to another user")
var ErrSelectionClosed = fmt.Errorf("selection session already finished")
