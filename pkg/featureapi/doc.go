// Package featureapi exposes a feature.Registry over HTTP with chi.
//
//	GET  /features?category=movement&tag=fly
//	GET  /features/{name}
//	POST /features/{name}/toggle
//	POST /features/{name}/on
//	POST /features/{name}/off
//	PUT  /policy            {"enforce": true}
//	GET  /faults
//
// Feature lifecycles are not safe for concurrent use, so the handler
// serialises every request that reads or mutates feature state.
// "on" and "off" do nothing when the feature already has that intent;
// "toggle" always flips it.
package featureapi
