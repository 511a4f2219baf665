package retry

import "github.com/sirupsen/logrus"

var log = logrus.WithField("component", "retry")
