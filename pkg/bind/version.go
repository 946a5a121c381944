package bind

// Version is the argbind library version.
const Version = "0.1.0"
