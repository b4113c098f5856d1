// SPDX-License-Identifier: AGPL-3.0-only
package weather

import (
	"fmt"
	"strings"
)

// formatAlerts renders alert features into a readable report, one alert per
// section.
func formatAlerts(features []alertFeature) string {
	alerts := make([]string, len(features))
	for i, feature := range features {
		alerts[i] = formatAlert(feature.Properties)
	}
	return strings.Join(alerts, "\n---\n")
}

func formatAlert(props alertProperties) string {
	return fmt.Sprintf(`
Event: %s
Area: %s
Severity: %s
Description: %s
Instructions: %s
`,
		orDefault(props.Event, "Unknown"),
		orDefault(props.AreaDesc, "Unknown"),
		orDefault(props.Severity, "Unknown"),
		orDefault(props.Description, "No description available"),
		orDefault(props.Instruction, "No specific instructions provided"),
	)
}

// formatForecast renders the next forecast periods into a readable report.
// Only the first five periods are shown.
func formatForecast(periods []forecastPeriod) string {
	if len(periods) > 5 {
		periods = periods[:5]
	}

	forecasts := make([]string, len(periods))
	for i, period := range periods {
		forecasts[i] = fmt.Sprintf(`
%s:
Temperature: %d°%s
Wind: %s %s
Forecast: %s
`,
			period.Name,
			period.Temperature,
			period.TemperatureUnit,
			period.WindSpeed,
			period.WindDirection,
			period.DetailedForecast,
		)
	}
	return strings.Join(forecasts, "\n---\n")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
