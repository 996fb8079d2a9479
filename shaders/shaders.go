package shaders

import (
	_ "embed"
)

//go:embed depth_encode.wgsl
var DepthEncodeWGSL string
