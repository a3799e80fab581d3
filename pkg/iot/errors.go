package iot

import "errors"

var (
	ErrDeviceNotFound   = errors.New("device not found")
	ErrGeofenceNotFound = errors.New("geofence not found")
	ErrInvalidGeofence  = errors.New("invalid geofence")
	ErrInvalidWindow    = errors.New("suppression window must end in the future")
)
