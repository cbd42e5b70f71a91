// Package model provides the data structures shared by the merge engine and its observers.
// It defines the observer contract and the events describing every decision taken while two pipelines are merged.
package model
