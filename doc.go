/*
Package mimica is a small facial expression heuristic, which classifies the expression of the
most prominent face in a frame (happy, sad, surprised, neutral or angry) by measuring the pixel
brightness and the edge density of the mouth and eye regions.

It also provides a pupil visibility meter, which casts rays from the darkest point of the eye region
and reports how much of the pupil is exposed, ranging from 0% (closed eye) to 100%.

The package provides a command line interface, which can analyze single images, whole directories
or a webcam stream. To check the supported commands type:

	$ mimica --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"time"

		"github.com/esimov/mimica"
	)

	func main() {
		locator, err := mimica.LoadPigoLocator("cascade/facefinder", mimica.DefaultDetectorOptions())
		if err != nil {
			panic(err)
		}
		p := mimica.NewPipeline(locator, mimica.NewAnalyzer(mimica.DefaultThresholds()))
		s := mimica.NewSmoother(mimica.DefaultSmoothInterval, time.Now())

		frame, err := p.Expression(img, s, time.Now())
		if err != nil {
			fmt.Printf("Error analyzing the frame: %s", err.Error())
		}
		fmt.Println(frame.State.Label)
	}
*/
package mimica
