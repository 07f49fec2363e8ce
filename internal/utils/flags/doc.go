// Package flags holds pflag helpers shared by recheckout commands.
package flags
