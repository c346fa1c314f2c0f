package messages

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "messages")
