// Package domain models air-quality and temperature snapshots and the
// edge-triggered alerting semantics built on top of them.
//
// # Data Sources
//
// Air-quality readings come from the EPA AirNow current-observation API
// (https://docs.airnowapi.org/), which reports one observation per pollutant
// for a postal code within a search radius. Each observation carries a
// provider-computed AQI value and a category number. Temperature is the
// OpenWeather "feels like" value in Fahrenheit.
//
// # AirNow Conventions
//
// Pollutant names are provider-defined identifiers ("PM2.5", "O3", sometimes
// "PM10"). Alerting looks only at PM2.5 and ozone; any other pollutants in a
// snapshot are carried through and persisted but never evaluated.
//
// Category numbers bucket the AQI into the standard EPA scale:
//
//	1 Good | 2 Moderate | 3 Unhealthy for Sensitive Groups
//	4 Unhealthy | 5 Very Unhealthy | 6 Hazardous
//
// The category number, not the raw AQI, is the alerting signal: it already
// encodes the EPA breakpoints, which shift per pollutant.
//
// # Status and Transitions
//
// A snapshot evaluates to a binary status: BAD when any watched reading
// strictly exceeds its threshold, GOOD otherwise. A snapshot missing either
// the air-quality map or the temperature has unknown status and always
// evaluates GOOD, so a total absence of data can never fire a false alert.
//
// Consecutive run statuses are classified into a Transition. Notifications
// fire only on EnteredAlert and ExitedAlert; Unchanged covers both "still
// fine" and "still alerting", which is what makes re-running the job safe.
package domain
