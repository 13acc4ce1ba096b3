package service

import (
	"fmt"
	"regexp"
	"strconv"

	"killrvideoit/domain"
)

// hostAndPortPattern is the only endpoint shape accepted from configuration and the registry: A.B.C.D:P.
var hostAndPortPattern = regexp.MustCompile(`^(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}):(\d+)$`)

const maxPort = 65535

// ValidateHostAndPort checks that s is a dotted-quad IPv4 address, a colon and a decimal port in 1..65535.
// Returns nil or a bad_format error whose message contains s. Never touches the network.
func ValidateHostAndPort(s string) error {
	m := hostAndPortPattern.FindStringSubmatch(s)
	if m == nil {
		return NewFormatError(fmt.Sprintf("%q is not a valid host:port format", s), nil)
	}
	port, err := strconv.Atoi(m[2])
	if err != nil || port < 1 || port > maxPort {
		return NewFormatError(fmt.Sprintf("%q has a port outside 1-%d", s, maxPort), err)
	}
	return nil
}

// ParseAddress returns the dotted-quad part of s. s must have passed ValidateHostAndPort; panics otherwise.
func ParseAddress(s string) string {
	return mustMatch(s)[1]
}

// ParsePort returns the numeric port of s. s must have passed ValidateHostAndPort; panics otherwise.
func ParsePort(s string) int {
	port, err := strconv.Atoi(mustMatch(s)[2])
	if err != nil {
		panic("service.address_format.go: ParsePort called on unvalidated value " + strconv.Quote(s))
	}
	return port
}

// ParseEndpoint validates s and extracts both fields.
func ParseEndpoint(s string) (domain.Endpoint, error) {
	if err := ValidateHostAndPort(s); err != nil {
		return domain.Endpoint{}, err
	}
	return domain.Endpoint{Address: ParseAddress(s), Port: ParsePort(s)}, nil
}

func mustMatch(s string) []string {
	m := hostAndPortPattern.FindStringSubmatch(s)
	if m == nil {
		panic("service.address_format.go: value was not validated: " + strconv.Quote(s))
	}
	return m
}
