package execution

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "execution")
