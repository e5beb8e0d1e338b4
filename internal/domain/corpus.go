package domain

// defaultCorpus is the fixed seed and disaster-fallback document pool. The
// ids are stable across runs so repeated seeding is idempotent.
var defaultCorpus = []Document{
	{ID: "jobs_demo#1", Text: "Software Engineer working on backend APIs with FastAPI and cloud services."},
	{ID: "jobs_demo#2", Text: "Machine Learning Engineer focusing on NLP, transformers, and production pipelines."},
	{ID: "jobs_demo#3", Text: "Data Analyst role requiring SQL, dashboards, and storytelling with data."},
	{ID: "jobs_demo#4", Text: "DevOps Engineer supporting CI/CD, Kubernetes, and infrastructure automation."},
	{ID: "jobs_demo#5", Text: "Frontend Developer specializing in React, TypeScript, and modern CSS frameworks."},
	{ID: "jobs_demo#6", Text: "Data Scientist, PhD required, focusing on causal inference and bayesian modeling."},
	{ID: "jobs_demo#7", Text: "Mobile App Developer (iOS) proficient in Swift, SwiftUI, and CoreData."},
	{ID: "jobs_demo#8", Text: "Android Developer with experience in Kotlin, Jetpack Compose, and RxJava."},
	{ID: "jobs_demo#9", Text: "Cloud Architect (AWS) responsible for designing scalable, serverless microservices."},
	{ID: "jobs_demo#10", Text: "Cybersecurity Analyst monitoring for threats, SIEM, and vulnerability assessment."},
	{ID: "jobs_demo#11", Text: "QA Automation Engineer writing test scripts using Selenium, Cypress, and Pytest."},
	{ID: "jobs_demo#12", Text: "Database Administrator (DBA) managing PostgreSQL clusters and query optimization."},
	{ID: "jobs_demo#13", Text: "Site Reliability Engineer (SRE) focused on system observability, SLOs, and incident response."},
	{ID: "jobs_demo#14", Text: "Technical Product Manager defining roadmap for a B2B SaaS platform."},
	{ID: "jobs_demo#15", Text: "AI Researcher publishing papers on multimodal learning and generative models."},
	{ID: "jobs_demo#16", Text: "Game Developer using Unity, C#, and 3D graphics programming."},
	{ID: "jobs_demo#17", Text: "Embedded Systems Engineer programming firmware in C/C++ for IoT devices."},
	{ID: "jobs_demo#18", Text: "UX/UI Designer creating wireframes, prototypes in Figma, and conducting user testing."},
	{ID: "jobs_demo#19", Text: "Graphic Designer for branding, marketing materials, using Adobe Creative Suite."},
	{ID: "jobs_demo#20", Text: "Content Writer specializing in SEO, long-form blog posts, and technical whitepapers."},
	{ID: "jobs_demo#21", Text: "Video Editor proficient in Adobe Premiere Pro, After Effects, and color grading."},
	{ID: "jobs_demo#22", Text: "Animation Artist (3D) using Blender and Maya for character modeling and rigging."},
	{ID: "jobs_demo#23", Text: "Digital Marketing Manager overseeing PPC, SEO, and email marketing campaigns."},
	{ID: "jobs_demo#24", Text: "Sales Development Representative (SDR) doing cold outreach and qualifying leads."},
	{ID: "jobs_demo#25", Text: "Account Executive (AE) managing the full sales cycle and closing enterprise deals."},
	{ID: "jobs_demo#26", Text: "Financial Analyst (FP&A) responsible for budgeting, forecasting, and variance analysis."},
	{ID: "jobs_demo#27", Text: "Accountant (CPA) handling accounts payable, receivable, and financial reporting."},
	{ID: "jobs_demo#28", Text: "Investment Banking Analyst building financial models and executing M&A deals."},
	{ID: "jobs_demo#29", Text: "Management Consultant solving strategic problems for Fortune 500 clients."},
	{ID: "jobs_demo#30", Text: "Business Analyst bridging the gap between stakeholders and the development team."},
	{ID: "jobs_demo#31", Text: "Human Resources (HR) Generalist managing payroll, benefits, and employee relations."},
	{ID: "jobs_demo#32", Text: "Technical Recruiter sourcing candidates for highly specialized engineering roles."},
	{ID: "jobs_demo#33", Text: "Project Manager (PMP) coordinating timelines, resources, and deliverables."},
	{ID: "jobs_demo#34", Text: "Agile Coach / Scrum Master facilitating sprint ceremonies and team processes."},
	{ID: "jobs_demo#35", Text: "Customer Support Specialist handling inbound tickets via Zendesk and live chat."},
	{ID: "jobs_demo#36", Text: "Supply Chain Manager optimizing logistics, inventory, and vendor negotiations."},
	{ID: "jobs_demo#37", Text: "Operations Manager overseeing daily business functions and process improvement."},
	{ID: "jobs_demo#38", Text: "Executive Assistant managing calendars, travel, and communications for C-level."},
	{ID: "jobs_demo#39", Text: "Registered Nurse (RN) working in the Intensive Care Unit (ICU)."},
	{ID: "jobs_demo#40", Text: "Medical Researcher (Biotech) conducting experiments on CAR-T cell therapies."},
	{ID: "jobs_demo#41", Text: "Bioinformatics Scientist analyzing genomic data (NGS) using Python and R."},
	{ID: "jobs_demo#42", Text: "Clinical Research Coordinator (CRC) managing patient recruitment for trials."},
	{ID: "jobs_demo#43", Text: "Pharmacist dispensing medication and advising patients on drug interactions."},
	{ID: "jobs_demo#44", Text: "Mechanical Engineer designing components in SolidWorks and performing FEA."},
	{ID: "jobs_demo#45", Text: "Electrical Engineer designing PCB layouts for consumer electronics."},
	{ID: "jobs_demo#46", Text: "Civil Engineer managing large-scale infrastructure projects and site plans."},
	{ID: "jobs_demo#47", Text: "Aerospace Engineer working on satellite propulsion systems."},
	{ID: "jobs_demo#48", Text: "Paralegal assisting attorneys with case research and document preparation."},
	{ID: "jobs_demo#49", Text: "High School Teacher (Mathematics) teaching Algebra and Calculus."},
	{ID: "jobs_demo#50", Text: "Architect (AIA) designing commercial buildings using AutoCAD and Revit."},
}

// DefaultCorpus returns a copy of the built-in job corpus. Callers may
// mutate the returned slice freely.
func DefaultCorpus() []Document {
	out := make([]Document, len(defaultCorpus))
	copy(out, defaultCorpus)
	return out
}
