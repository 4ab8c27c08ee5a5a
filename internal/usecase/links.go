package usecase

import "net/url"

// linkedInSearchURL guesses a people-search link for a person at a company.
// Best effort only; LinkedIn profile URLs cannot be derived reliably from a
// name.
func linkedInSearchURL(name, company string) string {
	query := url.QueryEscape(name + " " + company)
	return "https://www.linkedin.com/search/results/people/?keywords=" + query
}

// phoneSearchURL builds a web search for the company's contact number.
func phoneSearchURL(company string) string {
	query := url.QueryEscape(company + " contact phone number")
	return "https://www.google.com/search?q=" + query
}
