package info

// NAME the application name, also used for config, cache and log paths
const NAME = "portx"

// VERSION the current release of the application
const VERSION = "v0.1.0"
