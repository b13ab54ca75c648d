package internal

const PackageVersion = "0.4.0"
