package aws

import "errors"

var ErrNoClient = errors.New("aws client is not available")
