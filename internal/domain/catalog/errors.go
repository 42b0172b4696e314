package catalog

import "errors"

var ErrServiceInactive = errors.New("service is inactive")
