// Package schedule triggers cleaning runs at configured daily wall clock
// times. The configuration lives in the main config file; the app service
// runs the loop against the robot client.
package schedule
