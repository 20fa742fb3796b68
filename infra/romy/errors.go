package romy

import "errors"

// ErrNotReachable wraps transport failures while talking to the robot.
var ErrNotReachable = errors.New("robot not reachable")

// ErrNotROMY is returned when a host answers on a candidate port but does
// not follow the robot interface contract.
var ErrNotROMY = errors.New("host does not speak the robot interface protocol")

// ErrLocked is returned when the http interface is locked and no password
// was provided.
var ErrLocked = errors.New("http interface is locked, password required")

// ErrBadPassword is returned for passwords that cannot be valid.
var ErrBadPassword = errors.New("password must contain exactly 8 characters")

// ErrUnlockFailed is returned when the robot rejects the unlock request.
var ErrUnlockFailed = errors.New("could not unlock http interface")

// ErrHTTPStatus flags a response with an unexpected http status code.
var ErrHTTPStatus = errors.New("unexpected http status")
