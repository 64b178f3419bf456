package xsession

// Version is the current version of the go-xsession library
const Version = "0.1.0"
