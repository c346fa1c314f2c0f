package light

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "light")
