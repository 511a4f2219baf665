package batch

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "batch")
